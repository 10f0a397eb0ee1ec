package constants

import (
	"strings"
)

type ClauseType string

const (
	Confidentiality       ClauseType = "confidentiality"
	Indemnification       ClauseType = "indemnification"
	Termination           ClauseType = "termination"
	Jurisdiction          ClauseType = "jurisdiction"
	ForceMajeure          ClauseType = "force majeure"
	Warranty              ClauseType = "warranty"
	LimitationOfLiability ClauseType = "limitation of liability"
	IntellectualProperty  ClauseType = "intellectual property"
)

var allClauseTypes = []ClauseType{
	Confidentiality,
	Indemnification,
	Termination,
	Jurisdiction,
	ForceMajeure,
	Warranty,
	LimitationOfLiability,
	IntellectualProperty,
}

// ClauseTypes returns the known clause types in their canonical order.
func ClauseTypes() []ClauseType {
	out := make([]ClauseType, len(allClauseTypes))
	copy(out, allClauseTypes)
	return out
}

func ClauseTypesAsStrings() []string {
	result := make([]string, len(allClauseTypes))
	for i, ct := range allClauseTypes {
		result[i] = string(ct)
	}
	return result
}

// riskFactorTaxonomy lists the sub-concerns a clause of each type may raise.
var riskFactorTaxonomy = map[ClauseType][]string{
	Confidentiality:       {"scope of confidential information", "duration of obligations", "permitted disclosures"},
	Indemnification:       {"breadth of indemnity", "uncapped exposure", "defense obligations"},
	Termination:           {"notice period", "termination for convenience", "post-termination obligations"},
	Jurisdiction:          {"venue", "choice of law", "enforcement costs"},
	ForceMajeure:          {"covered events", "notice requirements", "suspension of obligations"},
	Warranty:              {"warranty scope", "disclaimers", "remedy limitations"},
	LimitationOfLiability: {"liability cap", "excluded damages", "carve-outs"},
	IntellectualProperty:  {"ownership transfer", "license scope", "pre-existing ip"},
}

// RiskFactors returns a copy of the taxonomy for the clause type, or nil if unknown.
func RiskFactors(ct ClauseType) []string {
	f, ok := riskFactorTaxonomy[ct]
	if !ok {
		return nil
	}
	out := make([]string, len(f))
	copy(out, f)
	return out
}

// IsRiskFactor reports whether factor belongs to the taxonomy of ct (case-insensitive).
func IsRiskFactor(ct ClauseType, factor string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(factor))
	for _, f := range riskFactorTaxonomy[ct] {
		if f == want {
			return f, true
		}
	}
	return "", false
}

// Canonicalize maps a free-form clause label to a known ClauseType.
func Canonicalize(input string) (ClauseType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")

	synonyms := map[string]ClauseType{
		"nda":                          Confidentiality,
		"non disclosure":               Confidentiality,
		"confidential information":     Confidentiality,
		"indemnity":                    Indemnification,
		"hold harmless":                Indemnification,
		"termination clause":           Termination,
		"governing law":                Jurisdiction,
		"choice of law":                Jurisdiction,
		"dispute resolution":           Jurisdiction,
		"act of god":                   ForceMajeure,
		"warranties":                   Warranty,
		"liability":                    LimitationOfLiability,
		"liability cap":                LimitationOfLiability,
		"limitation of liabilities":    LimitationOfLiability,
		"intellectual property rights": IntellectualProperty,
		"ip rights":                    IntellectualProperty,
	}
	if ct, ok := synonyms[normalized]; ok {
		return ct, true
	}
	for _, ct := range allClauseTypes {
		if normalized == string(ct) {
			return ct, true
		}
	}
	return "", false
}
