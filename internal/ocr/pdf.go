package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// acquirePDF rasterizes the document with pdftoppm and OCRs each page.
// Pages run concurrently but text is reassembled in page order, and the
// aggregate confidence is the arithmetic mean over all rendered pages.
// A failed page contributes empty text and confidence 0 rather than
// aborting the document.
func (e *Extractor) acquirePDF(ctx context.Context, data []byte) (AcquisitionResult, error) {
	tmpDir, err := os.MkdirTemp("", "fra-pdf-*")
	if err != nil {
		return AcquisitionResult{Method: "pdf-ocr"}, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	pdfPath := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return AcquisitionResult{Method: "pdf-ocr"}, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return AcquisitionResult{Method: "pdf-ocr", Warnings: []string{string(errb)}}, fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm zero-pads page numbers, so a lexical sort is page order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return AcquisitionResult{Method: "pdf-ocr"}, fmt.Errorf("pdftoppm produced no images")
	}

	type pageResult struct {
		text  string
		conf  float64
		warns []string
	}
	results := make([]pageResult, len(matches))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PageWorkers)
	for i, img := range matches {
		g.Go(func() error {
			text, conf, warns, err := e.ocrPage(gctx, img)
			if err != nil {
				warns = append(warns, fmt.Sprintf("page %d: %v", i+1, err))
				text, conf = "", 0
			}
			mu.Lock()
			results[i] = pageResult{text: text, conf: conf, warns: warns}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // page errors are absorbed above

	var b strings.Builder
	var warns []string
	var confSum float64
	for i, pr := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pr.text)
		confSum += pr.conf
		warns = append(warns, pr.warns...)
	}

	return AcquisitionResult{
		Text:       b.String(),
		Confidence: confSum / float64(len(results)),
		Pages:      len(results),
		Method:     "pdf-ocr",
		Warnings:   warns,
	}, nil
}
