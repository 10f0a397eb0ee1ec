package entity

import "github.com/fineprint/contract-analyzer/constants"

// DocumentMetadata describes an ingested document.
type DocumentMetadata struct {
	Title     string                 `json:"title"`
	Type      constants.DocumentType `json:"type"`
	PageCount *int                   `json:"pageCount,omitempty"`
	WordCount int                    `json:"wordCount"`
}

// RawDocument is the ingestor's output. Text is read-only for every consumer.
type RawDocument struct {
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
}
