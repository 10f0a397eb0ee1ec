package server

import "github.com/fineprint/contract-analyzer/internal/entity"

// AnalyzeTextRequest submits inline document text.
type AnalyzeTextRequest struct {
	Text      string `json:"text"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	PageCount *int   `json:"pageCount,omitempty"`
}

type AnalyzeTextResponse struct {
	Report *entity.Report `json:"report"`
}

type GetReportRequest struct {
	ID string `json:"id"`
}

type GetReportResponse struct {
	Report *entity.Report `json:"report"`
}

type ExtractTermsRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type ExtractTermsResponse struct {
	Terms entity.ExtractedContractTerms `json:"terms"`
}
