package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fineprint/contract-analyzer/constants"
)

// NormalizeClausesJSON makes a model answer schema-friendly before validation:
//   - strips markdown code fences and accepts a bare array of clauses
//   - canonicalizes clause types, dropping clauses whose type is unknown
//   - lowercases risk levels (unknown levels become "medium")
//   - keeps only risk factors from the per-type taxonomy
//   - removes unknown keys
//
// It returns the cleaned document and a list of what was changed or dropped.
func NormalizeClausesJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	body := stripFences(raw)
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var items []any
	switch t := root.(type) {
	case []any:
		items = t
	case map[string]any:
		list, ok := t["clauses"].([]any)
		if !ok {
			return nil, nil, fmt.Errorf("sanitize: clauses is %T, want array", t["clauses"])
		}
		items = list
	default:
		return nil, nil, fmt.Errorf("sanitize: unexpected top-level %T", root)
	}

	var notes []string
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			notes = append(notes, fmt.Sprintf("clauses[%d](not object)", i))
			continue
		}
		label, _ := m["type"].(string)
		ct, ok := constants.Canonicalize(label)
		if !ok {
			notes = append(notes, fmt.Sprintf("clauses[%d](type %q)", i, label))
			continue
		}

		content, _ := m["content"].(string)

		levelRaw, _ := m["riskLevel"].(string)
		level, ok := constants.ParseRiskLevel(levelRaw)
		if !ok {
			level = constants.RiskMedium
			notes = append(notes, fmt.Sprintf("clauses[%d].riskLevel(%q->medium)", i, levelRaw))
		}

		factors := make([]string, 0)
		if list, ok := m["riskFactors"].([]any); ok {
			for _, f := range list {
				s, _ := f.(string)
				if canon, ok := constants.IsRiskFactor(ct, s); ok {
					factors = append(factors, canon)
				} else {
					notes = append(notes, fmt.Sprintf("clauses[%d].riskFactors(%q)", i, s))
				}
			}
		}

		for k := range m {
			switch k {
			case "type", "content", "riskLevel", "riskFactors":
			default:
				notes = append(notes, fmt.Sprintf("clauses[%d].%s(unknown)", i, k))
			}
		}

		out = append(out, map[string]any{
			"type":        string(ct),
			"content":     strings.TrimSpace(content),
			"riskLevel":   string(level),
			"riskFactors": factors,
		})
	}

	b, err := json.Marshal(map[string]any{"clauses": out})
	if err != nil {
		return nil, notes, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(notes) > 0 {
		logger.Warn("llm.classify.normalize_sanitize", "changes", notes)
	}
	return b, notes, nil
}

func stripFences(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = bytes.TrimPrefix(b, []byte("```"))
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}
