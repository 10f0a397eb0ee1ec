package risk

import (
	"math"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

const (
	termWeight    = 0.1
	pageWeight    = 0.05
	pageCap       = 1.0
	scoreScale    = 20.0
	maxScore      = 100.0
	mediumAtLeast = 33.0
	highAtLeast   = 66.0
)

var clauseWeight = map[constants.RiskLevel]float64{
	constants.RiskHigh:   0.3,
	constants.RiskMedium: 0.2,
	constants.RiskLow:    0.1,
}

// Score computes the document risk score in [0,100]. pageCount is optional.
func Score(termCount int, pageCount *int, clauses []entity.Clause) float64 {
	score := termWeight * float64(termCount)
	if pageCount != nil {
		score += math.Min(float64(*pageCount)*pageWeight, pageCap)
	}
	for _, c := range clauses {
		score += clauseWeight[c.RiskLevel]
	}
	score *= scoreScale
	return math.Max(0, math.Min(score, maxScore))
}

// LevelFor maps a score to its bucket; lower bounds are inclusive.
func LevelFor(score float64) constants.RiskLevel {
	switch {
	case score < mediumAtLeast:
		return constants.RiskLow
	case score < highAtLeast:
		return constants.RiskMedium
	default:
		return constants.RiskHigh
	}
}
