// Package fallback derives the claim field map directly from raw OCR text
// with ordered regular-expression candidates per field. It is the recovery
// path when the LLM extractor fails or returns a degenerate result, so it
// is total: it never errors and tolerates noisy, malformed label text.
package fallback

import (
	"log/slog"
	"strings"

	"github.com/vanadhikar/fra-claims/internal/llm"
)

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns a complete FieldMap for any input, including the empty
// string. Fields are matched independently: for each field the candidates
// run in order and the first capture passing its plausibility filter wins.
// An internal panic yields the partial map built so far.
func (e *Extractor) Extract(rawText string) (fields llm.FieldMap) {
	fields = llm.NewFieldMap()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("fallback.extract.panic", "panic", r)
		}
	}()

	for _, rule := range rules {
		for _, c := range rule.candidates {
			m := c.re.FindStringSubmatch(rawText)
			if m == nil {
				continue
			}
			captured := joinGroups(m[1:])
			if v, ok := c.filter(captured); ok {
				fields[rule.field] = v
				break
			}
		}
	}
	return fields
}

// joinGroups concatenates non-empty capture groups with a single space, so
// multi-group patterns (number + unit) report "<number> <unit>" verbatim.
func joinGroups(groups []string) string {
	kept := groups[:0:0]
	for _, g := range groups {
		if g != "" {
			kept = append(kept, g)
		}
	}
	return strings.Join(kept, " ")
}
