package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner fakes tesseract and pdftoppm. A pdftoppm call writes
// numPages empty page files next to the requested prefix; a tesseract
// call answers from the per-page maps, keyed by the image base name,
// falling back to the defaults for anonymous temp files.
type stubRunner struct {
	numPages int
	text     map[string]string
	tsv      map[string]string
	fail     map[string]bool

	defaultText string
	defaultTSV  string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.Contains(name, "pdftoppm") {
		prefix := args[len(args)-1]
		for i := 1; i <= s.numPages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}

	page := filepath.Base(args[0])
	if s.fail[page] {
		return nil, []byte("tesseract: cannot read image"), errors.New("exit status 1")
	}
	if args[len(args)-1] == "tsv" {
		if out, ok := s.tsv[page]; ok {
			return []byte(out), nil, nil
		}
		return []byte(s.defaultTSV), nil, nil
	}
	if out, ok := s.text[page]; ok {
		return []byte(out), nil, nil
	}
	return []byte(s.defaultText), nil, nil
}

// tsvWithConfs builds a minimal tesseract TSV document whose word rows
// carry the given confidence values.
func tsvWithConfs(confs ...string) string {
	var b strings.Builder
	b.WriteString("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n")
	for i, c := range confs {
		fmt.Fprintf(&b, "5\t1\t1\t1\t1\t%d\t10\t10\t50\t20\t%s\tword%d\n", i+1, c, i)
	}
	return b.String()
}

func newTestExtractor(cfg Config, r Runner) *Extractor {
	e := NewExtractor(cfg, slog.Default())
	e.runner = r
	return e
}

func TestAcquirePDFConfidenceAveraging(t *testing.T) {
	stub := &stubRunner{
		numPages: 2,
		text: map[string]string{
			"page-1.png": "page one text\n",
			"page-2.png": "page two text\n",
		},
		tsv: map[string]string{
			"page-1.png": tsvWithConfs("90", "90"),
			"page-2.png": tsvWithConfs("70"),
		},
	}
	e := newTestExtractor(Config{}, stub)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.4"), "claim.pdf")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if res.Confidence != 80 {
		t.Errorf("Confidence = %v, want exactly 80", res.Confidence)
	}
	if want := "page one text\npage two text"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Method != "pdf-ocr" {
		t.Errorf("Method = %q, want pdf-ocr", res.Method)
	}
}

func TestAcquirePDFFailedPageAbsorbed(t *testing.T) {
	stub := &stubRunner{
		numPages: 2,
		text:     map[string]string{"page-1.png": "first page"},
		tsv:      map[string]string{"page-1.png": tsvWithConfs("90")},
		fail:     map[string]bool{"page-2.png": true},
	}
	e := newTestExtractor(Config{}, stub)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.4"), "claim.pdf")
	if err != nil {
		t.Fatalf("Acquire() error = %v, want page failure absorbed", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	// failed page contributes empty text and 0 confidence
	if want := "first page\n"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Confidence != 45 {
		t.Errorf("Confidence = %v, want 45", res.Confidence)
	}
	var found bool
	for _, w := range res.Warnings {
		if strings.Contains(w, "page 2") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want mention of page 2", res.Warnings)
	}
}

func TestAcquirePDFMaxPages(t *testing.T) {
	stub := &stubRunner{
		numPages:    4,
		defaultText: "text",
		defaultTSV:  tsvWithConfs("50"),
	}
	e := newTestExtractor(Config{MaxPages: 2}, stub)

	res, err := e.Acquire(context.Background(), []byte("%PDF-1.4"), "claim.pdf")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want cap of 2", res.Pages)
	}
}

func TestAcquireImage(t *testing.T) {
	stub := &stubRunner{
		defaultText: "  Name of the claimant: Ramesh  \n",
		// conf <= 0 rows carry no prediction and must not drag the mean
		defaultTSV: tsvWithConfs("80", "90", "-1", "0"),
	}
	e := newTestExtractor(Config{}, stub)

	res, err := e.Acquire(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "scan.png")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
	if res.Method != "image-ocr" {
		t.Errorf("Method = %q, want image-ocr", res.Method)
	}
	if want := "Name of the claimant: Ramesh"; res.Text != want {
		t.Errorf("Text = %q, want trimmed %q", res.Text, want)
	}
	if res.Confidence != 85 {
		t.Errorf("Confidence = %v, want 85 (mean of 80 and 90)", res.Confidence)
	}
}

func TestAcquireImageConfidenceFailureDegrades(t *testing.T) {
	// tesseract succeeds in text mode; TSV rows are all non-predictions
	stub := &stubRunner{
		defaultText: "some text",
		defaultTSV:  tsvWithConfs("-1", "-1"),
	}
	e := newTestExtractor(Config{}, stub)

	res, err := e.Acquire(context.Background(), []byte("img"), "scan.jpg")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 when no token qualifies", res.Confidence)
	}
	if res.Text != "some text" {
		t.Errorf("Text = %q, want text despite zero confidence", res.Text)
	}
}

func TestAcquireUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(Config{}, &stubRunner{})
	if _, err := e.Acquire(context.Background(), []byte("hi"), "claim.docx"); err == nil {
		t.Error("Acquire() accepted an unsupported extension")
	}
}

func TestTSVConfidenceSkipsMalformedLines(t *testing.T) {
	tsv := tsvWithConfs("60") + "short\tline\n"
	stub := &stubRunner{defaultText: "x", defaultTSV: tsv}
	e := newTestExtractor(Config{}, stub)

	res, err := e.Acquire(context.Background(), []byte("img"), "scan.png")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if res.Confidence != 60 {
		t.Errorf("Confidence = %v, want 60 with malformed row skipped", res.Confidence)
	}
}
