package risk

import (
	"context"
	"regexp"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/utils"
)

// HeuristicRadius is the context window around a keyword hit, in characters.
const HeuristicRadius = 100

// keywordRule ties a clause type to the keywords that signal it.
type keywordRule struct {
	Type    constants.ClauseType
	Pattern *regexp.Regexp
}

// keywordRules follows the fixed clause-type order, so output order is deterministic.
var keywordRules = []keywordRule{
	{constants.Confidentiality, regexp.MustCompile(`(?i)confidential|non-disclosure|nondisclosure`)},
	{constants.Indemnification, regexp.MustCompile(`(?i)indemnif|hold\s+harmless`)},
	{constants.Termination, regexp.MustCompile(`(?i)terminat`)},
	{constants.Jurisdiction, regexp.MustCompile(`(?i)jurisdiction|governing\s+law`)},
	{constants.ForceMajeure, regexp.MustCompile(`(?i)force\s+majeure|act\s+of\s+god`)},
	{constants.Warranty, regexp.MustCompile(`(?i)warrant`)},
	{constants.LimitationOfLiability, regexp.MustCompile(`(?i)limitation\s+of\s+liability|liabilit`)},
	{constants.IntellectualProperty, regexp.MustCompile(`(?i)intellectual\s+property|copyright|patent|trademark`)},
}

// HeuristicClassifier finds clauses by keyword. It never fails and needs no network.
type HeuristicClassifier struct{}

// Classify emits at most one medium-risk clause per clause type, anchored at the
// earliest keyword occurrence.
func (HeuristicClassifier) Classify(_ context.Context, text string) []entity.Clause {
	clauses := make([]entity.Clause, 0, len(keywordRules))
	for _, rule := range keywordRules {
		loc := rule.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		clauses = append(clauses, entity.Clause{
			Type:        rule.Type,
			Content:     utils.ContextWindow(text, loc[0], loc[1], HeuristicRadius),
			RiskLevel:   constants.RiskMedium,
			RiskFactors: constants.RiskFactors(rule.Type),
		})
	}
	return clauses
}
