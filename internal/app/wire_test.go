package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/repository"
)

func TestNewClassifier_NilWithoutKey(t *testing.T) {
	cfg := common.LoadConfig()
	cfg.LLM.APIKey = ""
	c, err := NewClassifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewClassifier_WithKey(t *testing.T) {
	cfg := common.LoadConfig()
	cfg.LLM.APIKey = "test-key"
	c, err := NewClassifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestOpenStore_InMemory(t *testing.T) {
	ctx := context.Background()
	cfg := common.LoadConfig()
	cfg.Database.DSN = "postgres://ignored"

	store, err := OpenStore(ctx, cfg, true, nil)
	require.NoError(t, err)
	defer store.Close(nil)

	require.NoError(t, store.Health(ctx))
	reports, err := store.Repo.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, reports)
}
