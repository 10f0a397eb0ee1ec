package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/extract"
	"github.com/fineprint/contract-analyzer/internal/repository"
	"github.com/fineprint/contract-analyzer/internal/risk"
)

// MaxTitleLength bounds document titles accepted by the pipeline.
const MaxTitleLength = 512

var documentTypes = []string{
	string(constants.PDF),
	string(constants.DOCX),
	string(constants.IMAGE),
	string(constants.TEXT),
}

type AnalyzeStage struct {
	Terms    *extract.TermExtractor
	Scanner  *extract.Scanner
	Analyzer *risk.Analyzer
	Repo     repository.AnalysisRepository // optional
	Logger   *slog.Logger

	now func() time.Time
}

func NewAnalyzeStage(
	logger *slog.Logger,
	terms *extract.TermExtractor,
	scanner *extract.Scanner,
	analyzer *risk.Analyzer,
	repo repository.AnalysisRepository,
) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{
		Terms:    terms,
		Scanner:  scanner,
		Analyzer: analyzer,
		Repo:     repo,
		Logger:   logger,
		now:      time.Now,
	}
}

func validateDocument(doc entity.RawDocument) error {
	if strings.TrimSpace(doc.Text) == "" {
		return common.NoContentError(doc.Metadata.Title)
	}
	v := common.NewValidator()
	v.Field("title", doc.Metadata.Title, common.MaxLength(MaxTitleLength))
	v.Field("type", string(doc.Metadata.Type), common.OneOf(documentTypes...))
	if doc.Metadata.PageCount != nil && *doc.Metadata.PageCount < 0 {
		return common.NewAppError("INVALID_INPUT", "page count must not be negative", common.ErrInvalidInput)
	}
	return v.Error()
}

// Run analyzes one document. source labels the extracted terms; the title is used when empty.
func (s *AnalyzeStage) Run(ctx context.Context, doc entity.RawDocument, source string) (*entity.Report, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	if source == "" {
		source = doc.Metadata.Title
	}
	ctx = common.WithDocument(ctx, doc.Metadata.Title)
	log := common.LoggerFromContext(ctx, s.Logger)

	terms := s.Terms.Extract(ctx, doc.Text, source)
	scanned := s.Scanner.Scan(ctx, doc.Text)

	analysis, err := s.Analyzer.Analyze(ctx, doc, scanned)
	if err != nil {
		log.Error("pipeline.analyze.failed", "err", err)
		return nil, err
	}

	report := &entity.Report{
		ID:        uuid.New(),
		Document:  doc.Metadata,
		Terms:     terms,
		Analysis:  analysis,
		CreatedAt: s.now().UTC(),
	}
	if s.Repo != nil {
		if err := s.Repo.Save(ctx, report); err != nil {
			log.Error("pipeline.save.failed", "report_id", report.ID, "err", err)
			return nil, err
		}
	}
	log.Info("pipeline.analyze.ok",
		"report_id", report.ID,
		"fields", len(terms.Confidence),
		"terms", len(scanned),
		"clauses", len(analysis.Clauses),
		"risk_level", string(analysis.RiskLevel),
	)
	return report, nil
}
