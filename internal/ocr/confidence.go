package ocr

import (
	"regexp"
)

var (
	reLegalHeading = regexp.MustCompile(`(?i)\b(agreement|contract|section|article|clause|whereas|hereby|parties)\b`)
	reDate         = regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`)
	reCurr         = regexp.MustCompile(`(?i)\b(usd|eur|gbp)\b|[$£€]`)
	reSignature    = regexp.MustCompile(`(?i)\b(signature|signed|witness|in witness whereof)\b`)
)

// heuristicConfidence scores OCR output by how contract-like it reads.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if reLegalHeading.MatchString(txt) {
		score += 0.25
	}
	if reDate.MatchString(txt) {
		score += 0.15
	}
	if reCurr.MatchString(txt) {
		score += 0.1
	}
	if reSignature.MatchString(txt) {
		score += 0.1
	}
	if len(txt) > 500 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
