package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vanadhikar/fra-claims/constants"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
	PageWorkers   int // concurrent page OCR, default 4
}

// AcquisitionResult is the output of text acquisition over one document.
// Confidence is the engine-reported mean on a 0..100 scale; for multi-page
// documents it is the arithmetic mean of per-page confidences.
type AcquisitionResult struct {
	Text       string
	Confidence float64
	Pages      int
	Method     string // "image-ocr" | "pdf-ocr"
	Duration   time.Duration
	Warnings   []string
}

// Extractor converts uploaded document bytes into raw text plus a
// confidence score, delegating character recognition to tesseract.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 4
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Acquire picks a strategy based on the uploaded filename's extension.
func (e *Extractor) Acquire(ctx context.Context, data []byte, filename string) (AcquisitionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(filename))
	e.logger.Debug("starting acquisition", "filename", filename, "bytes", len(data), "ext", ext)

	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.acquirePDF(ctx, data)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.acquireImage(ctx, data, ext)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("unsupported document extension", "extension", ext)
		return AcquisitionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
}

func (e *Extractor) acquireImage(ctx context.Context, data []byte, ext string) (AcquisitionResult, error) {
	path, cleanup, err := writeTemp(data, "fra-img-*."+ext)
	if err != nil {
		return AcquisitionResult{}, err
	}
	defer cleanup()

	text, conf, warns, err := e.ocrPage(ctx, path)
	if err != nil {
		return AcquisitionResult{Method: "image-ocr", Warnings: warns}, err
	}
	return AcquisitionResult{
		Text:       text,
		Confidence: conf,
		Pages:      1,
		Method:     "image-ocr",
		Warnings:   warns,
	}, nil
}

func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
