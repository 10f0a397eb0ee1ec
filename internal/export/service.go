package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/repository"
)

// Service is a tiny façade over the analysis repository that produces export bytes.
type Service struct {
	repo   repository.AnalysisRepository
	logger *slog.Logger
}

func NewService(repo repository.AnalysisRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportReportsXLSX returns a workbook for the stored reports matching opts.
func (s *Service) ExportReportsXLSX(ctx context.Context, opts repository.ListOptions) ([]byte, error) {
	start := time.Now()
	reports, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out, err := WriteWorkbook(reports)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok", "rows", len(reports), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}

// ExportReportCSV returns a single-row contracts CSV for one report.
func (s *Service) ExportReportCSV(ctx context.Context, id uuid.UUID) ([]byte, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*entity.Report{rep}); err != nil {
		return nil, err
	}
	s.logger.Info("export.csv.ok", "report_id", id)
	return buf.Bytes(), nil
}
