// Package app wires configuration into the long-lived components shared by the binaries.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/llm"
	"github.com/fineprint/contract-analyzer/internal/llm/openai"
	"github.com/fineprint/contract-analyzer/internal/ocr"
	"github.com/fineprint/contract-analyzer/internal/pipeline"
	"github.com/fineprint/contract-analyzer/internal/repository"
	"github.com/fineprint/contract-analyzer/internal/server"
)

// Store is the selected report repository plus its lifecycle hooks.
type Store struct {
	Repo   repository.AnalysisRepository
	Health server.HealthFunc

	pool *pgxpool.Pool
	db   *sql.DB
}

func (s *Store) Close(logger *slog.Logger) {
	repository.Close(s.pool, s.db, logger)
}

// OpenStore picks PostgreSQL when DB_URL is set and inmem is false, otherwise SQLite
// (SQLITE_PATH, or a private in-memory database).
func OpenStore(ctx context.Context, cfg *common.Config, inmem bool, logger *slog.Logger) (*Store, error) {
	if !inmem && cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
			pool.Close()
			return nil, err
		}
		if err := repository.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, common.WrapError(err, "migrate")
		}
		return &Store{
			Repo: repository.NewPostgresAnalysisRepository(pool, logger),
			Health: func(ctx context.Context) error {
				return repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger)
			},
			pool: pool,
		}, nil
	}

	path := cfg.Database.SQLitePath
	if inmem {
		path = ":memory:"
	}
	db, err := repository.OpenSQLite(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	repo, err := repository.NewSQLiteAnalysisRepository(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Repo: repo, Health: db.PingContext, db: db}, nil
}

// NewClassifier returns the remote clause classifier, or nil when no API key is configured
// so the analyzer falls back to keyword heuristics.
func NewClassifier(cfg *common.Config, logger *slog.Logger) (llm.ClauseClassifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("app.llm.disabled", "reason", "LLM_API_KEY not set")
		return nil, nil
	}
	c, err := openai.NewClient(openai.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		Timeout:        cfg.LLM.Timeout,
		MaxPromptChars: cfg.LLM.MaxPromptChars,
	}, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewProcessor builds the full pipeline with the file extractor as document source.
func NewProcessor(cfg *common.Config, repo repository.AnalysisRepository, logger *slog.Logger) (*pipeline.Processor, error) {
	classifier, err := NewClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	extractor := ocr.NewExtractor(ocr.Config{
		TessdataDir: cfg.OCR.TessdataDir,
		MaxPages:    cfg.OCR.MaxPages,
	}, logger)
	return pipeline.NewFromConfig(cfg, extractor, classifier, repo, logger), nil
}
