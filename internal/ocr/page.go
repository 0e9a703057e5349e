package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ocrPage runs tesseract over one page image, returning the recognized
// text and the mean token confidence on a 0..100 scale.
func (e *Extractor) ocrPage(ctx context.Context, path string) (string, float64, []string, error) {
	text, warns, err := e.tesseractText(ctx, path)
	if err != nil {
		return "", 0, warns, err
	}

	conf, w2, err := e.tesseractTSVConfidence(ctx, path)
	if err != nil {
		// text came through; a confidence failure degrades to 0, not a page failure
		warns = append(warns, err.Error())
		conf = 0
	}
	warns = append(warns, w2...)
	return strings.TrimSpace(text), conf, warns, nil
}

func (e *Extractor) tesseractText(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns the mean
// word confidence in 0..100. Tokens with conf <= 0 carry no prediction and
// are excluded; if no token qualifies the confidence is 0.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float64, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, []string{string(errb)}, fmt.Errorf("tesseract TSV: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	var sum float64
	var n int
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		v, err := strconv.ParseFloat(cols[len(cols)-2], 64)
		if err != nil || v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil, nil
	}
	return sum / float64(n), nil, nil
}
