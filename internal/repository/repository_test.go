package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

func newReport(title string, level constants.RiskLevel, at time.Time) *entity.Report {
	law := "State of Delaware"
	pages := 2
	return &entity.Report{
		ID: uuid.New(),
		Document: entity.DocumentMetadata{
			Title:     title,
			Type:      constants.TEXT,
			PageCount: &pages,
			WordCount: 120,
		},
		Terms: entity.ExtractedContractTerms{
			GoverningLaw: &law,
			Parties:      []string{"Acme Corp", "Widget LLC"},
			Confidence:   map[string]float64{"governingLaw": 0.85, "parties": 0.85},
			Source:       title,
			ExtractedAt:  at,
		},
		Analysis: entity.DocumentAnalysis{
			Clauses: []entity.Clause{{
				Type:        constants.Termination,
				Content:     "Either party may terminate",
				RiskLevel:   constants.RiskMedium,
				RiskFactors: []string{"notice period"},
			}},
			RiskScore:    42,
			RiskLevel:    level,
			Summary:      "summary",
			ClauseSource: constants.ClauseSourceHeuristic,
		},
		CreatedAt: at,
	}
}

func openTestRepo(t *testing.T) AnalysisRepository {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewSQLiteAnalysisRepository(ctx, db, nil)
	require.NoError(t, err)
	return repo
}

func TestSQLiteRepository_SaveAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rep := newReport("msa", constants.RiskMedium, at)

	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.Equal(t, "msa", got.Document.Title)
	require.NotNil(t, got.Document.PageCount)
	assert.Equal(t, 2, *got.Document.PageCount)
	assert.Equal(t, []string{"Acme Corp", "Widget LLC"}, got.Terms.Parties)
	assert.Equal(t, "State of Delaware", *got.Terms.GoverningLaw)
	assert.Nil(t, got.Terms.Amount)
	require.Len(t, got.Analysis.Clauses, 1)
	assert.Equal(t, constants.Termination, got.Analysis.Clauses[0].Type)
	assert.True(t, at.Equal(got.CreatedAt))
}

func TestSQLiteRepository_SaveIsUpsert(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	rep := newReport("nda", constants.RiskLow, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, rep))

	rep.Analysis.RiskLevel = constants.RiskHigh
	rep.Analysis.RiskScore = 80
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RiskHigh, got.Analysis.RiskLevel)
	assert.InDelta(t, 80.0, got.Analysis.RiskScore, 1e-9)

	all, err := repo.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLiteRepository_ListFiltersAndLimits(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var highIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		r := newReport("high", constants.RiskHigh, base.Add(time.Duration(i)*time.Hour))
		highIDs = append(highIDs, r.ID)
		require.NoError(t, repo.Save(ctx, r))
	}
	require.NoError(t, repo.Save(ctx, newReport("low", constants.RiskLow, base)))

	high, err := repo.List(ctx, ListOptions{RiskLevel: constants.RiskHigh})
	require.NoError(t, err)
	require.Len(t, high, 3)
	var got []uuid.UUID
	for _, r := range high {
		got = append(got, r.ID)
		assert.Equal(t, constants.RiskHigh, r.Analysis.RiskLevel)
	}
	assert.ElementsMatch(t, highIDs, got)

	limited, err := repo.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestQueries_DialectQuoting(t *testing.T) {
	pg, args := postgresQueries.byID(uuid.Nil)
	assert.Contains(t, pg, `"contract_analyses"`)
	assert.Contains(t, pg, "$1")
	assert.Len(t, args, 1)

	lite, _ := queries{dialect: dialect.SQLite}.list(ListOptions{RiskLevel: constants.RiskLow, Limit: 5})
	assert.True(t, strings.Contains(lite, "LIMIT 5"), lite)
	assert.Contains(t, lite, "?")
}
