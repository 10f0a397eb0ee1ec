package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

const analysesTable = "contract_analyses"

// ListOptions filters List. Zero value lists the newest DefaultListLimit reports.
type ListOptions struct {
	Limit     int
	RiskLevel constants.RiskLevel
}

const DefaultListLimit = 50

// AnalysisRepository persists pipeline reports.
type AnalysisRepository interface {
	Save(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Report, error)
	List(ctx context.Context, opts ListOptions) ([]*entity.Report, error)
}

// queries builds dialect-specific SQL for the analyses table.
type queries struct {
	dialect string
}

func (q queries) insert(r *entity.Report) (string, []any, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", nil, fmt.Errorf("encode report: %w", err)
	}
	query, args := entsql.Dialect(q.dialect).
		Insert(analysesTable).
		Columns("id", "title", "doc_type", "risk_score", "risk_level", "clause_source", "report", "created_at").
		Values(
			r.ID,
			r.Document.Title,
			string(r.Document.Type),
			r.Analysis.RiskScore,
			string(r.Analysis.RiskLevel),
			string(r.Analysis.ClauseSource),
			string(payload),
			r.CreatedAt.UTC(),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	return query, args, nil
}

func (q queries) byID(id uuid.UUID) (string, []any) {
	return entsql.Dialect(q.dialect).
		Select("report").
		From(entsql.Table(analysesTable)).
		Where(entsql.EQ("id", id)).
		Query()
}

func (q queries) list(opts ListOptions) (string, []any) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	sel := entsql.Dialect(q.dialect).
		Select("report").
		From(entsql.Table(analysesTable))
	if opts.RiskLevel != "" {
		sel = sel.Where(entsql.EQ("risk_level", string(opts.RiskLevel)))
	}
	return sel.OrderBy(entsql.Desc("created_at"), "id").Limit(limit).Query()
}

func decodeReport(raw []byte) (*entity.Report, error) {
	var r entity.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

var (
	postgresQueries = queries{dialect: dialect.Postgres}
	sqliteQueries   = queries{dialect: dialect.SQLite}
)
