package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/vanadhikar/fra-claims/constants"
	"github.com/vanadhikar/fra-claims/internal/common"
	"github.com/vanadhikar/fra-claims/internal/fallback"
	"github.com/vanadhikar/fra-claims/internal/llm"
	"github.com/vanadhikar/fra-claims/internal/ocr"
	"github.com/vanadhikar/fra-claims/internal/record"
)

type stubAcquirer struct {
	res ocr.AcquisitionResult
	err error
}

func (s stubAcquirer) Acquire(context.Context, []byte, string) (ocr.AcquisitionResult, error) {
	return s.res, s.err
}

type stubExtractor struct {
	fields llm.FieldMap
	err    error
}

func (s stubExtractor) ExtractFields(context.Context, string) (llm.FieldMap, []byte, error) {
	return s.fields, nil, s.err
}

const formText = "Name of the claimant: Ramesh Kumar\nVillage: Kothari\nDistrict: Yavatmal\nScheduled Tribe: Yes"

func TestProcessPrimarySuccess(t *testing.T) {
	primaryFields := llm.NewFieldMap()
	primaryFields[constants.FieldClaimantName] = "Ramesh Kumar"
	primaryFields[constants.FieldVillage] = "Kothari"

	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: formText, Confidence: 91.5, Pages: 1}},
		stubExtractor{fields: primaryFields},
		nil,
	)

	res, err := p.Process(context.Background(), []byte("doc"), "claim.png")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.UsedFallback {
		t.Error("UsedFallback = true after a successful primary extraction")
	}
	if res.Fields[constants.FieldClaimantName] != "Ramesh Kumar" {
		t.Errorf("claimant_name = %q", res.Fields[constants.FieldClaimantName])
	}
	if res.Confidence != 91.5 {
		t.Errorf("Confidence = %v, want pass-through 91.5", res.Confidence)
	}
	if res.FullAddress != "Kothari" {
		t.Errorf("FullAddress = %q, want %q", res.FullAddress, "Kothari")
	}
}

func TestProcessFallbackOnPrimaryError(t *testing.T) {
	fb := fallback.NewExtractor(slog.Default())
	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: formText, Pages: 1}},
		stubExtractor{err: errors.New("model unavailable")},
		fb,
	)

	res, err := p.Process(context.Background(), []byte("doc"), "claim.png")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !res.UsedFallback {
		t.Fatal("UsedFallback = false after a primary failure")
	}
	want, _ := record.Normalize(fb.Extract(formText))
	if !reflect.DeepEqual(res.Fields, want) {
		t.Errorf("Fields = %v, want fallback extraction %v", res.Fields, want)
	}
}

func TestProcessFallbackOnDegenerateAnswer(t *testing.T) {
	fb := fallback.NewExtractor(slog.Default())
	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: formText, Pages: 1}},
		stubExtractor{fields: llm.FieldMap{}}, // empty object: all-blank once completed
		fb,
	)

	res, err := p.Process(context.Background(), []byte("doc"), "claim.png")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !res.UsedFallback {
		t.Fatal("UsedFallback = false after an all-blank primary answer")
	}
	want, _ := record.Normalize(fb.Extract(formText))
	if !reflect.DeepEqual(res.Fields, want) {
		t.Errorf("Fields = %v, want fallback extraction %v", res.Fields, want)
	}
}

func TestProcessNoPrimaryConfigured(t *testing.T) {
	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: formText, Pages: 1}},
		nil, // no LLM wired
		nil,
	)

	res, err := p.Process(context.Background(), []byte("doc"), "claim.png")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !res.UsedFallback {
		t.Error("UsedFallback = false with no primary extractor configured")
	}
	if res.Fields[constants.FieldVillage] != "Kothari" {
		t.Errorf("village = %q, want %q", res.Fields[constants.FieldVillage], "Kothari")
	}
}

func TestProcessEmptyText(t *testing.T) {
	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: "   \n ", Pages: 1}},
		nil,
		nil,
	)

	_, err := p.Process(context.Background(), []byte("doc"), "blank.png")
	if !errors.Is(err, common.ErrEmptyText) {
		t.Errorf("Process() error = %v, want ErrEmptyText", err)
	}
}

func TestProcessAcquisitionFailure(t *testing.T) {
	p := NewProcessor(slog.Default(),
		stubAcquirer{err: errors.New("pdftoppm: exit status 1")},
		nil,
		nil,
	)

	_, err := p.Process(context.Background(), []byte("doc"), "broken.pdf")
	if err == nil {
		t.Fatal("Process() error = nil, want acquisition failure")
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Code != "ACQUISITION_FAILED" {
		t.Errorf("Process() error = %v, want AppError ACQUISITION_FAILED", err)
	}
}

func TestProcessResultAlwaysCompleteKeys(t *testing.T) {
	p := NewProcessor(slog.Default(),
		stubAcquirer{res: ocr.AcquisitionResult{Text: "illegible scribbles", Pages: 1}},
		nil,
		nil,
	)

	res, err := p.Process(context.Background(), []byte("doc"), "claim.jpg")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(res.Fields) != len(constants.FieldKeys) {
		t.Fatalf("Fields has %d keys, want %d", len(res.Fields), len(constants.FieldKeys))
	}
	for _, k := range constants.FieldKeys {
		if _, ok := res.Fields[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}
