package llm

import (
	"context"

	"github.com/fineprint/contract-analyzer/internal/entity"
)

// ClassifyRequest is everything a classifier needs to label the clauses of one document.
type ClassifyRequest struct {
	Text         string
	Title        string
	AllowedTypes []string // clause vocabulary; the model must pick from it
	MaxChars     int      // prompt cap for Text; 0 means the package default
}

// ClauseDTO is one clause as returned by the model.
type ClauseDTO struct {
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	RiskLevel   string   `json:"riskLevel"`
	RiskFactors []string `json:"riskFactors"`
}

// ClassifyResponse is the JSON object the model must return.
type ClassifyResponse struct {
	Clauses []ClauseDTO `json:"clauses"`
}

// ClauseClassifier labels the legal clauses in a document. Implementations report
// failures with the sentinel errors in this package so callers can pick a fallback.
type ClauseClassifier interface {
	ClassifyClauses(ctx context.Context, req ClassifyRequest) ([]entity.Clause, []byte /*rawJSON*/, error)
}
