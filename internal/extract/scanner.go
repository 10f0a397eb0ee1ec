package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/utils"
)

const (
	DefaultTermConfidence = 0.8
	DefaultContextRadius  = 50
	DefaultWideRadius     = 100
)

// ScannerConfig tunes the term scanner. Zero values fall back to the defaults above.
type ScannerConfig struct {
	Confidence    float64
	ContextRadius int // sections, percentages, references, other
	WideRadius    int // amounts and dates
}

var (
	amountPattern = regexp.MustCompile(`(?:[$€£]\s?|\b(?:USD|EUR|GBP)\s?)(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?|\b\d{1,3}(?:,\d{3})+(?:\.\d{2})?\b`)
	amountNoise   = regexp.MustCompile(`[$€£,\s]|USD|EUR|GBP`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`),
	}

	sectionPattern    = regexp.MustCompile(`(?i)\b(?:section|article|clause)\s+(\d+(?:\.\d+)*)`)
	percentagePattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)%`)
	referencePattern  = regexp.MustCompile(`(?i)\b(?:ref|reference|no)\.?\s*[:#]?\s*(\d+)\b`)
	numberPattern     = regexp.MustCompile(`\b\d+(?:[.,]\d+)*\b`)
)

// Scanner sweeps text for fine-grained lexical terms page by page.
type Scanner struct {
	Logger *slog.Logger
	cfg    ScannerConfig
}

func NewScanner(logger *slog.Logger, cfg ScannerConfig) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Confidence <= 0 {
		cfg.Confidence = DefaultTermConfidence
	}
	if cfg.ContextRadius <= 0 {
		cfg.ContextRadius = DefaultContextRadius
	}
	if cfg.WideRadius <= 0 {
		cfg.WideRadius = DefaultWideRadius
	}
	return &Scanner{Logger: logger, cfg: cfg}
}

// SplitPages splits text on form feeds. Text without one is a single page.
func SplitPages(text string) []string {
	return strings.Split(text, constants.PageBreak)
}

type span struct{ start, end int }

// pageScan accumulates terms for one document. seen is shared across pages so a
// normalized value is kept once per type for the whole document.
type pageScan struct {
	cfg   ScannerConfig
	seen  map[constants.TermType]map[string]struct{}
	terms []entity.ExtractedTerm
}

func (p *pageScan) add(page string, pageNo int, typ constants.TermType, value string, loc span, radius int) {
	if value == "" {
		return
	}
	bucket := p.seen[typ]
	if bucket == nil {
		bucket = map[string]struct{}{}
		p.seen[typ] = bucket
	}
	if _, dup := bucket[value]; dup {
		return
	}
	bucket[value] = struct{}{}
	p.terms = append(p.terms, entity.ExtractedTerm{
		Value:      value,
		Type:       typ,
		Confidence: p.cfg.Confidence,
		Page:       pageNo,
		Position:   entity.Position{Start: loc.start, End: loc.end},
		Context:    utils.ContextWindow(page, loc.start, loc.end, radius),
	})
}

// Scan returns every term found in text in scan order: per page amounts, dates,
// sections, percentages, references, then bare numbers not covered by any of those.
func (s *Scanner) Scan(ctx context.Context, text string) []entity.ExtractedTerm {
	scan := &pageScan{cfg: s.cfg, seen: map[constants.TermType]map[string]struct{}{}}

	for i, page := range SplitPages(text) {
		pageNo := i + 1
		var taken []span

		for _, loc := range amountPattern.FindAllStringIndex(page, -1) {
			sp := span{loc[0], loc[1]}
			taken = append(taken, sp)
			scan.add(page, pageNo, constants.TermAmount, normalizeAmount(page[sp.start:sp.end]), sp, s.cfg.WideRadius)
		}
		for _, re := range datePatterns {
			for _, loc := range re.FindAllStringIndex(page, -1) {
				sp := span{loc[0], loc[1]}
				taken = append(taken, sp)
				scan.add(page, pageNo, constants.TermDate, utils.CollapseWhitespace(page[sp.start:sp.end]), sp, s.cfg.WideRadius)
			}
		}
		for _, grouped := range []struct {
			re  *regexp.Regexp
			typ constants.TermType
		}{
			{sectionPattern, constants.TermSection},
			{percentagePattern, constants.TermPercentage},
			{referencePattern, constants.TermReference},
		} {
			for _, loc := range grouped.re.FindAllStringSubmatchIndex(page, -1) {
				sp := span{loc[0], loc[1]}
				taken = append(taken, sp)
				scan.add(page, pageNo, grouped.typ, page[loc[2]:loc[3]], sp, s.cfg.ContextRadius)
			}
		}
		for _, loc := range numberPattern.FindAllStringIndex(page, -1) {
			sp := span{loc[0], loc[1]}
			tok := page[sp.start:sp.end]
			if !isDigits(tok) || overlaps(sp, taken) {
				continue
			}
			scan.add(page, pageNo, constants.TermOther, tok, sp, s.cfg.ContextRadius)
		}
	}

	common.LoggerFromContext(ctx, s.Logger).Debug("extract.scan.ok", "terms", len(scan.terms))
	return scan.terms
}

func normalizeAmount(s string) string {
	return amountNoise.ReplaceAllString(s, "")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func overlaps(sp span, taken []span) bool {
	for _, t := range taken {
		if sp.start < t.end && t.start < sp.end {
			return true
		}
	}
	return false
}
