package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestDirectory_FiltersAndDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "msa.txt"), "master services agreement")
	writeFile(t, filepath.Join(root, "copy-of-msa.txt"), "master services agreement")
	writeFile(t, filepath.Join(root, "nda.pdf"), "%PDF-1.4 nda")
	writeFile(t, filepath.Join(root, "notes.md"), "not a contract")
	writeFile(t, filepath.Join(root, ".draft.txt"), "hidden")
	writeFile(t, filepath.Join(root, ".git", "lease.txt"), "hidden dir")
	writeFile(t, filepath.Join(root, "sub", "lease.docx"), "PK fake docx")

	ing := NewFSIngestor(nil)
	var handled []string
	results, stats, err := ing.IngestDirectory(context.Background(), root, true, func(_ context.Context, r IngestionResult) error {
		handled = append(handled, filepath.Base(r.SourcePath))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(0), stats.Failed)
	assert.Len(t, results, 4)

	sort.Strings(handled)
	assert.Len(t, handled, 3)
	assert.Contains(t, handled, "nda.pdf")
	assert.Contains(t, handled, "lease.docx")
	assert.NotContains(t, handled, ".draft.txt")

	for _, r := range results {
		if filepath.Base(r.SourcePath) == "lease.docx" {
			assert.Equal(t, constants.DOCX, r.Format)
			assert.Len(t, r.HashHex, 64)
		}
	}
}

func TestIngestDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".draft.txt"), "hidden")

	_, stats, err := NewFSIngestor(nil).IngestDirectory(context.Background(), root, false, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Succeeded)
}

func TestIngestDirectory_HandlerErrorCountsAsFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b.txt"), "b")

	results, stats, err := NewFSIngestor(nil).IngestDirectory(context.Background(), root, true,
		func(_ context.Context, r IngestionResult) error {
			if filepath.Base(r.SourcePath) == "b.txt" {
				return errors.New("queue closed")
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	for _, r := range results {
		if filepath.Base(r.SourcePath) == "b.txt" {
			assert.Equal(t, "queue closed", r.Err)
		}
	}
}

func TestIngestDirectory_RequiresRoot(t *testing.T) {
	_, _, err := NewFSIngestor(nil).IngestDirectory(context.Background(), "  ", true, nil)
	assert.Error(t, err)
}

func TestIngestPath_RejectsUnsupported(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "sheet.xlsx")
	writeFile(t, p, "x")

	_, err := NewFSIngestor(nil).IngestPath(context.Background(), p)
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/a/.b"))
	assert.False(t, IsHidden("/a/b.txt"))
	assert.False(t, IsHidden("."))
}

func TestStartWatcher_EmitsInitialAndNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.txt"), "old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, SkipHidden: true}, nil)
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, "existing.txt", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan produced no event")
	}

	writeFile(t, filepath.Join(root, "ignored.md"), "skip")
	writeFile(t, filepath.Join(root, "new.pdf"), "%PDF")

	select {
	case p := <-events:
		assert.Equal(t, "new.pdf", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher produced no event for new file")
	}
}

func TestStartWatcher_RequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
