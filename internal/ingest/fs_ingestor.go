package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fineprint/contract-analyzer/constants"
)

// FSIngestor reads from the local filesystem. Files with identical content are
// handed to the handler once per ingestor.
type FSIngestor struct {
	Logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string // sha256 hex -> first path
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Logger: logger, seen: map[string]string{}}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}
	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.Logger.Warn("ingest.path.unsupported", "path", abs, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			i.Logger.Warn("ingest.path.close", "path", abs, "error", err)
		}
	}()
	info, err := f.Stat()
	if err != nil {
		return out, err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash %s: %w", abs, err)
	}
	sum := hex.EncodeToString(h.Sum(nil))

	i.mu.Lock()
	first, dup := i.seen[sum]
	if !dup {
		i.seen[sum] = abs
	}
	i.mu.Unlock()
	if dup {
		i.Logger.Info("ingest.path.duplicate", "path", abs, "first", first)
	}

	return IngestionResult{
		SourcePath:   abs,
		Format:       constants.MapExtToFormat(ext),
		FileExt:      ext,
		HashHex:      sum,
		Size:         info.Size(),
		ModTime:      info.ModTime().UTC(),
		Deduplicated: dup,
	}, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each supported file. handle may be nil.
func (i *FSIngestor) IngestDirectory(
	ctx context.Context,
	root string,
	skipHidden bool,
	handle Handler,
) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		if r.Deduplicated {
			results = append(results, r)
			stats.Deduplicated++
			return nil
		}
		if handle != nil {
			if err := handle(ctx, r); err != nil {
				r.Err = err.Error()
				results = append(results, r)
				stats.Failed++
				return nil
			}
		}
		results = append(results, r)
		stats.Succeeded++
		return nil
	})

	i.Logger.Info("ingest.directory.done",
		"root", root, "scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
