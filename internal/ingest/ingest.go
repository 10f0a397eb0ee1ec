package ingest

import (
	"context"
	"time"

	"github.com/fineprint/contract-analyzer/constants"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	Format       constants.DocumentType
	FileExt      string
	HashHex      string
	Size         int64
	ModTime      time.Time
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Handler receives every newly seen file. A returned error marks the file as failed.
type Handler func(ctx context.Context, res IngestionResult) error

// Ingestor is the behavior the batch runner depends on.
type Ingestor interface {
	// IngestPath fingerprints a single path.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool, handle Handler) ([]IngestionResult, DirStats, error)
}
