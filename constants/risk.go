package constants

import "strings"

// RiskLevel is the discrete bucket derived from a risk score or assigned to a clause.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel accepts any casing and surrounding whitespace.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow, true
	case RiskMedium:
		return RiskMedium, true
	case RiskHigh:
		return RiskHigh, true
	}
	return "", false
}

// ClauseSource records which classification path produced a clause list.
type ClauseSource string

const (
	ClauseSourceRemote    ClauseSource = "remote"
	ClauseSourceHeuristic ClauseSource = "heuristic"
	ClauseSourceNone      ClauseSource = "none"
)
