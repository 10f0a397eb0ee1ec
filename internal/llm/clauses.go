package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

// ParseClauses turns a model answer into clauses: normalize, validate against schema,
// decode. Every failure wraps ErrMalformedResponse. The returned bytes are the
// normalized JSON when normalization succeeded, otherwise the input.
func ParseClauses(content []byte, schema *jsonschema.Schema, logger *slog.Logger) ([]entity.Clause, []byte, error) {
	cleaned, _, err := NormalizeClausesJSON(content, logger)
	if err != nil {
		return nil, content, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if schema != nil {
		if err := ValidateJSON(schema, cleaned); err != nil {
			return nil, cleaned, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	var resp ClassifyResponse
	if err := json.Unmarshal(cleaned, &resp); err != nil {
		return nil, cleaned, fmt.Errorf("%w: unmarshal clauses: %v", ErrMalformedResponse, err)
	}

	clauses := make([]entity.Clause, 0, len(resp.Clauses))
	for _, c := range resp.Clauses {
		factors := c.RiskFactors
		if factors == nil {
			factors = []string{}
		}
		clauses = append(clauses, entity.Clause{
			Type:        constants.ClauseType(c.Type),
			Content:     c.Content,
			RiskLevel:   constants.RiskLevel(c.RiskLevel),
			RiskFactors: factors,
		})
	}
	return clauses, cleaned, nil
}
