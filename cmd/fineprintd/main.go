package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fineprint/contract-analyzer/internal/app"
	"github.com/fineprint/contract-analyzer/internal/async"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/export"
	"github.com/fineprint/contract-analyzer/internal/ingest"
	"github.com/fineprint/contract-analyzer/internal/server"
)

func main() {
	if err := common.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, false, logger)
	if err != nil {
		logger.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer store.Close(logger)

	proc, err := app.NewProcessor(cfg, store.Repo, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	svc := server.NewAnalysisService(proc, store.Repo, logger)

	// gRPC
	grpcServer, healthServer := server.NewGRPCServer(svc, logger)
	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
			os.Exit(1)
		}
		go func() {
			logger.Info("fineprintd grpc listening", "addr", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC serve error", "error", err)
				stop()
			}
		}()
	}

	// HTTP
	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		httpServer = &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           server.NewRouter(svc, export.NewService(store.Repo, logger), store.Health, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("fineprintd http listening", "addr", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http serve error", "error", err)
				stop()
			}
		}()
	}

	// Background processing of files dropped into WATCH_DIR
	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.JobTimeout),
		async.WithResultHandler(func(r async.Result) {
			if r.Err == nil {
				logger.Info("fineprintd.document.analyzed",
					"path", r.Job.Path, "report_id", r.Report.ID, "risk_level", string(r.Report.Analysis.RiskLevel))
			}
		}),
	)
	if cfg.Queue.WatchDir != "" {
		go watch(ctx, cfg.Queue.WatchDir, queue, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "error", err)
		}
	}
	grpcServer.GracefulStop()
	if err := queue.Shutdown(shutdownCtx); err != nil {
		logger.Warn("queue shutdown", "error", err)
	}
}

func watch(ctx context.Context, dir string, queue async.Queue, logger *slog.Logger) {
	ing := ingest.NewFSIngestor(logger)
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
		SkipHidden:  true,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", dir, "error", err)
		return
	}
	for {
		select {
		case path, ok := <-events:
			if !ok {
				return
			}
			res, err := ing.IngestPath(ctx, path)
			if err != nil || res.Deduplicated {
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Path: res.SourcePath}); err != nil {
				logger.Warn("failed to enqueue file", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
