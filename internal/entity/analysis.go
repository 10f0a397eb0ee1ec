package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
)

// Clause is a span of text associated with a legal-concern category.
type Clause struct {
	Type        constants.ClauseType `json:"type"`
	Content     string               `json:"content"`
	RiskLevel   constants.RiskLevel  `json:"riskLevel"`
	RiskFactors []string             `json:"riskFactors"`
}

// DocumentAnalysis is the risk analyzer's output.
type DocumentAnalysis struct {
	Terms        []ExtractedTerm        `json:"terms"`
	Clauses      []Clause               `json:"clauses"`
	RiskScore    float64                `json:"riskScore"`
	RiskLevel    constants.RiskLevel    `json:"riskLevel"`
	Summary      string                 `json:"summary"`
	ClauseSource constants.ClauseSource `json:"clauseSource"`
}

// Report bundles everything produced for one document by the pipeline.
type Report struct {
	ID        uuid.UUID              `json:"id"`
	Document  DocumentMetadata       `json:"document"`
	Terms     ExtractedContractTerms `json:"terms"`
	Analysis  DocumentAnalysis       `json:"analysis"`
	CreatedAt time.Time              `json:"createdAt"`
}
