package risk

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/llm"
)

// Config tunes the analyzer.
type Config struct {
	// Timeout bounds the remote classifier call. Zero leaves the caller's deadline alone.
	Timeout        time.Duration
	MaxPromptChars int
}

// Analyzer scores documents. Clause classification goes to the remote classifier when
// one is configured and falls back to HeuristicClassifier on rate limits or timeouts.
type Analyzer struct {
	Logger     *slog.Logger
	Classifier llm.ClauseClassifier
	Heuristic  HeuristicClassifier
	Cfg        Config
}

func NewAnalyzer(logger *slog.Logger, classifier llm.ClauseClassifier, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{Logger: logger, Classifier: classifier, Cfg: cfg}
}

// Classify returns the clause list and the path that produced it. Classifier
// failures are logged and absorbed, never returned.
func (a *Analyzer) Classify(ctx context.Context, text string) ([]entity.Clause, constants.ClauseSource) {
	log := common.LoggerFromContext(ctx, a.Logger)

	clauses, err := a.classifyRemote(ctx, text)
	kind := llm.KindOf(err)
	switch kind {
	case llm.KindNone:
		log.Debug("risk.classify.remote", "clauses", len(clauses))
		return nonNil(clauses), constants.ClauseSourceRemote
	case llm.KindRateLimited, llm.KindUnavailable:
		clauses = a.Heuristic.Classify(ctx, text)
		log.Warn("risk.classify.fallback", "kind", kind.String(), "error", err, "clauses", len(clauses))
		return nonNil(clauses), constants.ClauseSourceHeuristic
	default:
		log.Error("risk.classify.failed", "kind", kind.String(), "error", err)
		return []entity.Clause{}, constants.ClauseSourceNone
	}
}

func (a *Analyzer) classifyRemote(ctx context.Context, text string) ([]entity.Clause, error) {
	if a.Classifier == nil {
		return nil, llm.ErrUnavailable
	}
	if a.Cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Cfg.Timeout)
		defer cancel()
	}
	clauses, _, err := a.Classifier.ClassifyClauses(ctx, llm.ClassifyRequest{
		Text:         text,
		Title:        common.DocumentFromContext(ctx),
		AllowedTypes: constants.ClauseTypesAsStrings(),
		MaxChars:     a.Cfg.MaxPromptChars,
	})
	if err == nil && ctx.Err() != nil {
		// Late answers count as unavailable.
		return nil, ctx.Err()
	}
	return clauses, err
}

// Analyze classifies clauses and scores the document. Empty text is rejected with
// common.ErrNoContent before anything else runs.
func (a *Analyzer) Analyze(ctx context.Context, doc entity.RawDocument, terms []entity.ExtractedTerm) (entity.DocumentAnalysis, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return entity.DocumentAnalysis{}, common.NoContentError(doc.Metadata.Title)
	}
	ctx = common.WithDocument(ctx, doc.Metadata.Title)

	clauses, source := a.Classify(ctx, doc.Text)
	if terms == nil {
		terms = []entity.ExtractedTerm{}
	}
	score := Score(len(terms), doc.Metadata.PageCount, clauses)
	level := LevelFor(score)

	common.LoggerFromContext(ctx, a.Logger).Info("risk.analyze.ok",
		"terms", len(terms), "clauses", len(clauses), "source", string(source),
		"score", score, "level", string(level),
	)
	return entity.DocumentAnalysis{
		Terms:        terms,
		Clauses:      clauses,
		RiskScore:    score,
		RiskLevel:    level,
		Summary:      Summarize(terms, clauses, level),
		ClauseSource: source,
	}, nil
}

func nonNil(c []entity.Clause) []entity.Clause {
	if c == nil {
		return []entity.Clause{}
	}
	return c
}
