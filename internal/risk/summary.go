package risk

import (
	"fmt"
	"strings"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

// Summarize renders the fixed narrative for an analysis. It only counts what it is given.
func Summarize(terms []entity.ExtractedTerm, clauses []entity.Clause, level constants.RiskLevel) string {
	var dates, amounts, legal int
	for _, t := range terms {
		switch t.Type {
		case constants.TermDate:
			dates++
		case constants.TermAmount:
			amounts++
		case constants.TermSection, constants.TermReference:
			legal++
		}
	}

	byLevel := map[constants.RiskLevel]int{}
	for _, c := range clauses {
		byLevel[c.RiskLevel]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Document analysis found %d terms: %d dates, %d amounts and %d legal terms. ",
		len(terms), dates, amounts, legal)
	fmt.Fprintf(&b, "Identified %d clauses (%d high risk, %d medium risk, %d low risk). ",
		len(clauses), byLevel[constants.RiskHigh], byLevel[constants.RiskMedium], byLevel[constants.RiskLow])
	fmt.Fprintf(&b, "Overall risk level: %s.", level)
	return b.String()
}
