package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

func termsOfType(terms []entity.ExtractedTerm, typ constants.TermType) []entity.ExtractedTerm {
	var out []entity.ExtractedTerm
	for _, t := range terms {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

func values(terms []entity.ExtractedTerm) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Value)
	}
	return out
}

func TestScan_SectionDeduplicated(t *testing.T) {
	text := "See Section 4.2 for details. As stated in Section 4.2, fees are fixed."

	terms := NewScanner(nil, ScannerConfig{}).Scan(context.Background(), text)

	sections := termsOfType(terms, constants.TermSection)
	require.Len(t, sections, 1)
	assert.Equal(t, "4.2", sections[0].Value)
	assert.Equal(t, 1, sections[0].Page)
	assert.InDelta(t, DefaultTermConfidence, sections[0].Confidence, 1e-9)
	assert.Empty(t, termsOfType(terms, constants.TermOther))
}

func TestScan_Categories(t *testing.T) {
	text := "Pay $1,500.00 by 03/15/2024 or 2024-04-01 or 5 Jan 2025. Late fee 2.5% per Article 7, Ref: 98765. Allow 30 days."

	terms := NewScanner(nil, ScannerConfig{}).Scan(context.Background(), text)

	assert.Equal(t, []string{"1500.00"}, values(termsOfType(terms, constants.TermAmount)))
	assert.Equal(t, []string{"03/15/2024", "2024-04-01", "5 Jan 2025"}, values(termsOfType(terms, constants.TermDate)))
	assert.Equal(t, []string{"7"}, values(termsOfType(terms, constants.TermSection)))
	assert.Equal(t, []string{"2.5"}, values(termsOfType(terms, constants.TermPercentage)))
	assert.Equal(t, []string{"98765"}, values(termsOfType(terms, constants.TermReference)))
	assert.Equal(t, []string{"30"}, values(termsOfType(terms, constants.TermOther)))

	// scan order: amounts, dates, sections, percentages, references, other
	var order []constants.TermType
	for _, term := range terms {
		if len(order) == 0 || order[len(order)-1] != term.Type {
			order = append(order, term.Type)
		}
	}
	assert.Equal(t, []constants.TermType{
		constants.TermAmount, constants.TermDate, constants.TermSection,
		constants.TermPercentage, constants.TermReference, constants.TermOther,
	}, order)
}

func TestScan_PagesAndDedupAcrossPages(t *testing.T) {
	text := "Fee: $500\fAgain $500 and $750\fSection 9"

	terms := NewScanner(nil, ScannerConfig{}).Scan(context.Background(), text)

	amounts := termsOfType(terms, constants.TermAmount)
	require.Len(t, amounts, 2)
	assert.Equal(t, "500", amounts[0].Value)
	assert.Equal(t, 1, amounts[0].Page)
	assert.Equal(t, "750", amounts[1].Value)
	assert.Equal(t, 2, amounts[1].Page)

	sections := termsOfType(terms, constants.TermSection)
	require.Len(t, sections, 1)
	assert.Equal(t, 3, sections[0].Page)
}

func TestScan_ContextWindow(t *testing.T) {
	text := "The   fee\n\nis $250 payable now."
	terms := NewScanner(nil, ScannerConfig{}).Scan(context.Background(), text)

	amounts := termsOfType(terms, constants.TermAmount)
	require.Len(t, amounts, 1)
	assert.Equal(t, "The fee is $250 payable now.", amounts[0].Context)
	assert.Equal(t, entity.Position{Start: 14, End: 18}, amounts[0].Position)

	narrow := NewScanner(nil, ScannerConfig{WideRadius: 4}).Scan(context.Background(), text)
	assert.Equal(t, "...is $250 pay...", termsOfType(narrow, constants.TermAmount)[0].Context)
}

func TestScan_Empty(t *testing.T) {
	assert.Empty(t, NewScanner(nil, ScannerConfig{}).Scan(context.Background(), ""))
}

func TestSplitPages(t *testing.T) {
	assert.Len(t, SplitPages("one"), 1)
	assert.Equal(t, []string{"a", "b", "c"}, SplitPages("a\fb\fc"))
}
