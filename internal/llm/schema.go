package llm

// BuildClauseJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// When a clause vocabulary is provided, "type" is restricted to it.
func BuildClauseJSONSchema(allowedTypes []string) map[string]any {
	typeProp := map[string]any{"type": "string", "minLength": 1}
	if len(allowedTypes) > 0 {
		typeProp = map[string]any{"type": "string", "enum": allowedTypes}
	}

	clause := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"type":      typeProp,
			"content":   map[string]any{"type": "string"},
			"riskLevel": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"riskFactors": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"type", "content", "riskLevel", "riskFactors"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"clauses": map[string]any{"type": "array", "items": clause},
		},
		"required": []string{"clauses"},
	}
}
