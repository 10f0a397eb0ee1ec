package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fineprint/contract-analyzer/internal/app"
	"github.com/fineprint/contract-analyzer/internal/async"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/export"
	"github.com/fineprint/contract-analyzer/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem      = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir        = flag.String("dir", "", "directory to process contracts from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		csvOut     = flag.String("csv", "", "also write a contracts CSV to this path")
		workers    = flag.Int("workers", 0, "number of concurrent documents (defaults to WORKERS)")
		showHidden = flag.Bool("hidden", false, "include hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "contracts.xlsx")
	}

	if err := common.LoadDotEnv(); err != nil {
		printError("Error: loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Queue.Workers = *workers
	}
	logger := common.NewLogger(cfg.Log.Level, "json", os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := app.OpenStore(ctx, cfg, *inmem, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close(logger)

	proc, err := app.NewProcessor(cfg, store.Repo, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	var (
		mu       sync.Mutex
		reports  []*entity.Report
		failures []async.Result
	)
	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.JobTimeout),
		async.WithResultHandler(func(r async.Result) {
			mu.Lock()
			defer mu.Unlock()
			if r.Err != nil {
				failures = append(failures, r)
				return
			}
			reports = append(reports, r.Report)
		}),
	)

	ing := ingest.NewFSIngestor(logger)
	_, stats, err := ing.IngestDirectory(ctx, *dir, !*showHidden, func(ctx context.Context, r ingest.IngestionResult) error {
		return queue.Enqueue(ctx, async.Job{Path: r.SourcePath})
	})
	if err != nil {
		logger.Error("directory ingest failed", "dir", *dir, "error", err)
	}
	if err := queue.Shutdown(ctx); err != nil {
		logger.Error("queue shutdown failed", "error", err)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Terms.Source < reports[j].Terms.Source })

	book, err := export.WriteWorkbook(reports)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, book, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	if *csvOut != "" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, reports); err != nil {
			logger.Error("failed to build csv", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csvOut, buf.Bytes(), 0o644); err != nil {
			logger.Error("failed to write csv", "path", *csvOut, "error", err)
			os.Exit(1)
		}
	}

	for _, f := range failures {
		printError("failed: %s: %v\n", f.Job.Path, f.Err)
	}
	fmt.Printf("scanned=%d matched=%d duplicates=%d analyzed=%d failed=%d workbook=%s\n",
		stats.Scanned, stats.Matched, stats.Deduplicated, len(reports), int(stats.Failed)+len(failures), *out)
	if len(failures) > 0 || stats.Failed > 0 {
		os.Exit(3)
	}
}
