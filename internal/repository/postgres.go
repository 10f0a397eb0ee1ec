package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS contract_analyses (
	id            uuid PRIMARY KEY,
	title         text NOT NULL,
	doc_type      text NOT NULL,
	risk_score    double precision NOT NULL,
	risk_level    text NOT NULL,
	clause_source text NOT NULL,
	report        jsonb NOT NULL,
	created_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS contract_analyses_level_idx ON contract_analyses (risk_level, created_at DESC);`

type pgAnalysisRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresAnalysisRepository stores reports in the hosted PostgreSQL database.
func NewPostgresAnalysisRepository(pool *pgxpool.Pool, logger *slog.Logger) AnalysisRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &pgAnalysisRepository{pool: pool, logger: logger}
}

// MigratePostgres creates the analyses table when missing.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, postgresSchema)
	return err
}

func (r *pgAnalysisRepository) Save(ctx context.Context, report *entity.Report) error {
	query, args, err := postgresQueries.insert(report)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.logger.Error("failed to save analysis", "id", report.ID, "error", err)
		return common.NewAppError("DB_ERROR", "save analysis", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *pgAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	query, args := postgresQueries.byID(id)
	var raw []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", "analysis "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to load analysis", "id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "load analysis", errors.Join(common.ErrDatabase, err))
	}
	return decodeReport(raw)
}

func (r *pgAnalysisRepository) List(ctx context.Context, opts ListOptions) ([]*entity.Report, error) {
	query, args := postgresQueries.list(opts)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list analyses", "error", err)
		return nil, common.NewAppError("DB_ERROR", "list analyses", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

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
