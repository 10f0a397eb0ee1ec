package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default
}

// ExtractionResult is the ingested document plus how it was obtained.
type ExtractionResult struct {
	Document   entity.RawDocument
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "docx-xml" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

// Extractor turns files into RawDocuments.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, mainly for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	format := constants.MapExtToFormat(ext)
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	var (
		res   ExtractionResult
		pages *int
		err   error
	)
	switch format {
	case constants.PDF:
		var n int
		res, n, err = e.extractPDF(ctx, path)
		pages = &n
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
		one := 1
		pages = &one
	case constants.DOCX:
		res, err = e.extractDOCX(path)
		if n := CountPages(res.Document.Text); n > 1 {
			pages = &n
		}
	case constants.TEXT:
		var b []byte
		b, err = os.ReadFile(path)
		res = ExtractionResult{Document: entity.RawDocument{Text: Normalize(string(b))}, Method: "plain-text", Confidence: 1}
		if n := CountPages(res.Document.Text); n > 1 {
			pages = &n
		}
	default:
		e.logger.Error("ocr.extract.unsupported", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	res.Document.Metadata = entity.DocumentMetadata{
		Title:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Type:      format,
		PageCount: pages,
		WordCount: len(strings.Fields(res.Document.Text)),
	}
	e.logger.Info("ocr.extract.ok",
		"path", path, "method", res.Method,
		"pages", CountPages(res.Document.Text), "words", res.Document.Metadata.WordCount,
		"confidence", res.Confidence, "duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
