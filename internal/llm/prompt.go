package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/utils"
)

// DefaultMaxPromptChars bounds the document text sent to the model.
const DefaultMaxPromptChars = 12000

// BuildSystemPrompt composes the instruction message: output shape, clause vocabulary,
// risk rubric and the per-type risk factor taxonomy.
func BuildSystemPrompt(req ClassifyRequest) string {
	allowed := req.AllowedTypes
	if len(allowed) == 0 {
		allowed = constants.ClauseTypesAsStrings()
	}

	var taxonomy []string
	for _, t := range allowed {
		if factors := constants.RiskFactors(constants.ClauseType(t)); len(factors) > 0 {
			taxonomy = append(taxonomy, t+": "+strings.Join(factors, ", "))
		}
	}

	parts := []string{
		"You are a contract analyst. Identify the legal clauses in the document and assess their risk.",
		`Return ONLY a JSON object of the form {"clauses":[{"type":"...","content":"...","riskLevel":"...","riskFactors":["..."]}]}.`,
		"'type' MUST be exactly one of: " + strings.Join(allowed, ", ") + ".",
		"'content' is the clause text or a faithful one-sentence summary of it.",
		"'riskLevel' is one of low, medium, high from the point of view of the party receiving the contract.",
		"Use high for uncapped liability, one-sided indemnities, unilateral termination or broad IP assignment; low for standard mutual terms.",
		"'riskFactors' lists only factors from this taxonomy: " + strings.Join(taxonomy, " | ") + ".",
		"Report each clause type at most once. If no clause is present, return an empty array.",
		"Never output null.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the document title and its text, capped at MaxChars.
func BuildUserPrompt(req ClassifyRequest) string {
	limit := req.MaxChars
	if limit <= 0 {
		limit = DefaultMaxPromptChars
	}

	var b strings.Builder
	if title := strings.TrimSpace(req.Title); title != "" {
		b.WriteString("Document: ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(req.Text)
	b.WriteString("\nContract text:\n")
	if utf8.RuneCountInString(text) > limit {
		b.WriteString(utils.TruncateRunes(text, limit))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
