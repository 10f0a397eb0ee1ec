package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/app"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

func main() {
	var (
		title     = flag.String("title", "", "document title when reading stdin")
		termsOnly = flag.Bool("terms", false, "print only the extracted contract terms")
		timeout   = flag.Duration("timeout", 2*time.Minute, "overall timeout")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: analyze [flags] <file | ->\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	_ = common.LoadDotEnv()
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	proc, err := app.NewProcessor(cfg, nil, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	arg := flag.Arg(0)
	var out any
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		text := string(b)
		if *termsOnly {
			out = proc.ExtractTerms(ctx, text, *title)
		} else {
			out, err = proc.AnalyzeDocument(ctx, entity.RawDocument{
				Text: text,
				Metadata: entity.DocumentMetadata{
					Title:     *title,
					Type:      constants.TEXT,
					WordCount: len(strings.Fields(text)),
				},
			})
		}
		if err != nil {
			logger.Error("analysis failed", "error", err)
			os.Exit(1)
		}
	} else {
		rep, err := proc.ProcessFile(ctx, arg)
		if err != nil {
			logger.Error("analysis failed", "path", arg, "error", err)
			os.Exit(1)
		}
		out = rep
		if *termsOnly {
			out = rep.Terms
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}
