package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/ocr"
)

// DefaultMinOCRConfidence flags image OCR output below this confidence.
const DefaultMinOCRConfidence float32 = 0.60

// DocumentSource turns a file on disk into a RawDocument.
type DocumentSource interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

type IngestStage struct {
	Source        DocumentSource
	MinConfidence float32
	Logger        *slog.Logger
}

func NewIngestStage(src DocumentSource, minConfidence float32, logger *slog.Logger) *IngestStage {
	if logger == nil {
		logger = slog.Default()
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinOCRConfidence
	}
	return &IngestStage{Source: src, MinConfidence: minConfidence, Logger: logger}
}

// Run extracts the document text. Low-confidence image OCR is kept but carries a warning.
func (s *IngestStage) Run(ctx context.Context, path string) (ocr.ExtractionResult, error) {
	if s.Source == nil {
		return ocr.ExtractionResult{}, common.NewAppError("CONFIG_ERROR", "no document source configured", common.ErrInternal)
	}
	res, err := s.Source.Extract(ctx, path)
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", path, err)
	}

	if res.Document.Metadata.Type == constants.IMAGE && res.Confidence > 0 && res.Confidence < s.MinConfidence {
		common.LoggerFromContext(ctx, s.Logger).Warn("pipeline.ingest.low_confidence",
			"path", path, "confidence", res.Confidence, "min", s.MinConfidence)
		res.Warnings = append(res.Warnings, fmt.Sprintf("ocr confidence %.2f below %.2f", res.Confidence, s.MinConfidence))
	}
	return res, nil
}
