package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contract_analyses (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	doc_type      TEXT NOT NULL,
	risk_score    REAL NOT NULL,
	risk_level    TEXT NOT NULL,
	clause_source TEXT NOT NULL,
	report        TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS contract_analyses_level_idx ON contract_analyses (risk_level, created_at);`

type sqliteAnalysisRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteAnalysisRepository creates the schema if needed and returns a local store.
func NewSQLiteAnalysisRepository(ctx context.Context, db *sql.DB, logger *slog.Logger) (AnalysisRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, common.NewAppError("DB_ERROR", "create sqlite schema", errors.Join(common.ErrDatabase, err))
	}
	return &sqliteAnalysisRepository{db: db, logger: logger}, nil
}

func (r *sqliteAnalysisRepository) Save(ctx context.Context, report *entity.Report) error {
	query, args, err := sqliteQueries.insert(report)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to save analysis", "id", report.ID, "error", err)
		return common.NewAppError("DB_ERROR", "save analysis", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *sqliteAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	query, args := sqliteQueries.byID(id)
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", "analysis "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to load analysis", "id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "load analysis", errors.Join(common.ErrDatabase, err))
	}
	return decodeReport(raw)
}

func (r *sqliteAnalysisRepository) List(ctx context.Context, opts ListOptions) ([]*entity.Report, error) {
	query, args := sqliteQueries.list(opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list analyses", "error", err)
		return nil, common.NewAppError("DB_ERROR", "list analyses", errors.Join(common.ErrDatabase, err))
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Report
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rep, err := decodeReport(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
