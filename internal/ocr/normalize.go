package ocr

import (
	"regexp"
	"strings"

	"github.com/fineprint/contract-analyzer/constants"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`[\t\x{00A0}]+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^[ \t]*[_\-=]{3,}[ \t]*$`)
	reHyphenWrap = regexp.MustCompile(`([a-z])-\n([a-z])`)
)

// Normalize collapses noisy whitespace while keeping line structure and the form-feed
// page separators intact. Words hyphenated across a line break are rejoined.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	pages := strings.Split(s, constants.PageBreak)
	for i, p := range pages {
		pages[i] = normalizePage(p)
	}
	// drop trailing empty pages (pdftotext ends every page with a form feed)
	for len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return strings.Join(pages, constants.PageBreak)
}

func normalizePage(s string) string {
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reHyphenWrap.ReplaceAllString(s, "$1$2")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.Trim(s, "\n ")
}

// CountPages returns the number of form-feed separated pages in normalized text.
func CountPages(s string) int {
	return 1 + strings.Count(s, constants.PageBreak)
}
