package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/repository"
)

// DocumentAnalyzer is the slice of the pipeline the transports need.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, doc entity.RawDocument) (*entity.Report, error)
	ExtractTerms(ctx context.Context, text, source string) entity.ExtractedContractTerms
}

// AnalysisService holds the transport-independent request handling shared by the
// gRPC and HTTP front ends.
type AnalysisService struct {
	analyzer DocumentAnalyzer
	repo     repository.AnalysisRepository // optional
	logger   *slog.Logger
}

func NewAnalysisService(analyzer DocumentAnalyzer, repo repository.AnalysisRepository, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{analyzer: analyzer, repo: repo, logger: logger}
}

func (s *AnalysisService) analyze(ctx context.Context, req *AnalyzeTextRequest) (*entity.Report, error) {
	docType := constants.TEXT
	if strings.TrimSpace(req.Type) != "" {
		t, ok := constants.ParseDocumentType(req.Type)
		if !ok {
			return nil, common.NewAppError("INVALID_INPUT", "unknown document type "+req.Type, common.ErrInvalidInput)
		}
		docType = t
	}
	doc := entity.RawDocument{
		Text: req.Text,
		Metadata: entity.DocumentMetadata{
			Title:     strings.TrimSpace(req.Title),
			Type:      docType,
			PageCount: req.PageCount,
			WordCount: len(strings.Fields(req.Text)),
		},
	}
	rep, err := s.analyzer.AnalyzeDocument(ctx, doc)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Warn("server.analyze.failed", "error", err)
		return nil, err
	}
	return rep, nil
}

func (s *AnalysisService) report(ctx context.Context, rawID string) (*entity.Report, error) {
	v := common.NewValidator()
	v.Field("id", strings.TrimSpace(rawID), common.Required, common.UUID)
	if err := v.Error(); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, common.NewAppError("NOT_FOUND", "report storage is not configured", common.ErrNotFound)
	}
	id := uuid.MustParse(strings.TrimSpace(rawID))
	return s.repo.GetByID(ctx, id)
}

func (s *AnalysisService) list(ctx context.Context, opts repository.ListOptions) ([]*entity.Report, error) {
	if s.repo == nil {
		return []*entity.Report{}, nil
	}
	return s.repo.List(ctx, opts)
}
