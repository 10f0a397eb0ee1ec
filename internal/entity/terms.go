package entity

import (
	"time"

	"github.com/fineprint/contract-analyzer/constants"
)

// ExtractedContractTerms holds the contract-level fields found in a document.
// A nil field means "not present in the text".
type ExtractedContractTerms struct {
	EffectiveDate     *string            `json:"effectiveDate,omitempty"`
	ExpirationDate    *string            `json:"expirationDate,omitempty"`
	Amount            *string            `json:"amount,omitempty"`
	Parties           []string           `json:"parties,omitempty"`
	PaymentTerms      *string            `json:"paymentTerms,omitempty"`
	TerminationClause *string            `json:"terminationClause,omitempty"`
	AutomaticRenewal  *string            `json:"automaticRenewal,omitempty"`
	GoverningLaw      *string            `json:"governingLaw,omitempty"`
	DisputeResolution *string            `json:"disputeResolution,omitempty"`
	Confidentiality   *string            `json:"confidentiality,omitempty"`
	Confidence        map[string]float64 `json:"confidence"`
	Source            string             `json:"source"`
	ExtractedAt       time.Time          `json:"extractedAt"`
}

// Position locates a term inside its page as byte offsets.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ExtractedTerm is a single lexical unit found by the term scanner.
type ExtractedTerm struct {
	Value      string             `json:"value"`
	Type       constants.TermType `json:"type"`
	Confidence float64            `json:"confidence"`
	Page       int                `json:"page"`
	Position   Position           `json:"position"`
	Context    string             `json:"context"`
}
