package pipeline

import (
	"context"
	"log/slog"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/extract"
	"github.com/fineprint/contract-analyzer/internal/llm"
	"github.com/fineprint/contract-analyzer/internal/repository"
	"github.com/fineprint/contract-analyzer/internal/risk"
)

// Processor coordinates ingest (text extraction) then analysis (terms, clauses, risk).
// It holds no per-document state, so one Processor serves concurrent callers.
type Processor struct {
	Logger  *slog.Logger
	Ingest  *IngestStage
	Analyze *AnalyzeStage
}

func NewProcessor(logger *slog.Logger, ingest *IngestStage, analyze *AnalyzeStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Ingest: ingest, Analyze: analyze}
}

// NewFromConfig wires the default stages. classifier and repo may be nil: clause
// classification then uses the keyword heuristic and reports are not persisted.
func NewFromConfig(
	cfg *common.Config,
	src DocumentSource,
	classifier llm.ClauseClassifier,
	repo repository.AnalysisRepository,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	terms := extract.NewTermExtractor(logger, extract.ConstantScorer(cfg.Analysis.FieldConfidence))
	scanner := extract.NewScanner(logger, extract.ScannerConfig{})
	analyzer := risk.NewAnalyzer(logger, classifier, risk.Config{
		Timeout:        cfg.LLM.Timeout,
		MaxPromptChars: cfg.LLM.MaxPromptChars,
	})
	return NewProcessor(logger,
		NewIngestStage(src, cfg.Analysis.MinOCRConfidence, logger),
		NewAnalyzeStage(logger, terms, scanner, analyzer, repo),
	)
}

// AnalyzeDocument runs the analysis stage on an already ingested document.
func (p *Processor) AnalyzeDocument(ctx context.Context, doc entity.RawDocument) (*entity.Report, error) {
	return p.Analyze.Run(ctx, doc, "")
}

// ExtractTerms runs only the contract field extractor.
func (p *Processor) ExtractTerms(ctx context.Context, text, source string) entity.ExtractedContractTerms {
	return p.Analyze.Terms.Extract(ctx, text, source)
}

// ProcessFile ingests path, then analyzes the resulting document.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*entity.Report, error) {
	log := common.LoggerFromContext(ctx, p.Logger)

	res, err := p.Ingest.Run(ctx, path)
	if err != nil {
		log.Error("processor.ingest.failed", "path", path, "err", err)
		return nil, err
	}
	log.Info("processor.ingest.ok",
		"path", path,
		"method", res.Method,
		"words", res.Document.Metadata.WordCount,
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
	)

	report, err := p.Analyze.Run(ctx, res.Document, path)
	if err != nil {
		log.Error("processor.analyze.failed", "path", path, "err", err)
		return nil, err
	}
	return report, nil
}
