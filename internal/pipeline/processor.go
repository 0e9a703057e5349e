// Package pipeline coordinates the document extraction stages: text
// acquisition, LLM field extraction, regex fallback, and normalization.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanadhikar/fra-claims/internal/common"
	"github.com/vanadhikar/fra-claims/internal/fallback"
	"github.com/vanadhikar/fra-claims/internal/llm"
	"github.com/vanadhikar/fra-claims/internal/ocr"
	"github.com/vanadhikar/fra-claims/internal/record"
)

// TextAcquirer is the acquisition boundary; production wraps tesseract,
// tests return canned text.
type TextAcquirer interface {
	Acquire(ctx context.Context, data []byte, filename string) (ocr.AcquisitionResult, error)
}

// Result is the outcome of processing one uploaded document.
type Result struct {
	Filename     string
	RawText      string
	Confidence   float64
	Pages        int
	Fields       llm.FieldMap
	FullAddress  string
	UsedFallback bool
}

type Processor struct {
	logger   *slog.Logger
	acquirer TextAcquirer
	primary  llm.FieldExtractor // may be nil when no LLM is configured
	fallback *fallback.Extractor
}

func NewProcessor(logger *slog.Logger, acquirer TextAcquirer, primary llm.FieldExtractor, fb *fallback.Extractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fb == nil {
		fb = fallback.NewExtractor(logger)
	}
	return &Processor{logger: logger, acquirer: acquirer, primary: primary, fallback: fb}
}

// Process runs the full pipeline over one document. An acquisition failure
// or an all-empty OCR result is surfaced to the caller; an extraction
// failure never is: the pipeline degrades to pattern extraction so a
// field map is always produced for readable documents.
func (p *Processor) Process(ctx context.Context, data []byte, filename string) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	acq, err := p.acquirer.Acquire(ctx, data, filename)
	if err != nil {
		p.logger.Error("pipeline.acquire.failed", "req_id", rid, "filename", filename, "error", err)
		return nil, common.NewAppError("ACQUISITION_FAILED", "text acquisition failed", err)
	}
	if strings.TrimSpace(acq.Text) == "" {
		p.logger.Warn("pipeline.acquire.empty", "req_id", rid, "filename", filename, "pages", acq.Pages)
		return nil, common.ErrEmptyText
	}
	p.logger.Info("pipeline.acquire.ok",
		"req_id", rid,
		"filename", filename,
		"method", acq.Method,
		"pages", acq.Pages,
		"confidence", acq.Confidence,
		"text_len", len(acq.Text),
	)

	fields, usedFallback := p.extract(ctx, rid, acq.Text)
	fields, fullAddress := record.Normalize(fields)

	p.logger.Info("pipeline.done",
		"req_id", rid,
		"filename", filename,
		"used_fallback", usedFallback,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Filename:     filename,
		RawText:      acq.Text,
		Confidence:   acq.Confidence,
		Pages:        acq.Pages,
		Fields:       fields,
		FullAddress:  fullAddress,
		UsedFallback: usedFallback,
	}, nil
}

// extract tries the primary extractor first and falls back to the regex
// extractor on any error or a degenerate all-blank answer.
func (p *Processor) extract(ctx context.Context, rid, rawText string) (llm.FieldMap, bool) {
	if p.primary != nil {
		fields, _, err := p.primary.ExtractFields(ctx, rawText)
		if err == nil && !fields.Complete().AllBlank() {
			return fields, false
		}
		if err != nil {
			p.logger.Warn("pipeline.primary.failed", "req_id", rid, "error", err)
		} else {
			p.logger.Warn("pipeline.primary.degenerate", "req_id", rid)
		}
	}
	return p.fallback.Extract(rawText), true
}
