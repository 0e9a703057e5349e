package llm

import (
	"context"
	"strings"

	"github.com/vanadhikar/fra-claims/constants"
)

// FieldMap is the normalized shape of one extracted claim form. It always
// carries exactly the twelve schema keys; a field that could not be read
// holds "" rather than being absent.
type FieldMap map[string]string

// NewFieldMap returns a FieldMap with every schema key set to "".
func NewFieldMap() FieldMap {
	m := make(FieldMap, len(constants.FieldKeys))
	for _, k := range constants.FieldKeys {
		m[k] = ""
	}
	return m
}

// Complete fills in any missing schema key with "" and drops keys outside
// the schema. It returns the receiver for chaining.
func (m FieldMap) Complete() FieldMap {
	known := make(map[string]struct{}, len(constants.FieldKeys))
	for _, k := range constants.FieldKeys {
		known[k] = struct{}{}
		if _, ok := m[k]; !ok {
			m[k] = ""
		}
	}
	for k := range m {
		if _, ok := known[k]; !ok {
			delete(m, k)
		}
	}
	return m
}

// AllBlank reports whether every field is empty or whitespace. An all-blank
// result from the primary extractor is treated as a degenerate non-answer.
func (m FieldMap) AllBlank() bool {
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of the map.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FieldExtractor is the structured-extraction boundary the pipeline
// depends on. Production implementations wrap the Gemini service; test
// implementations return canned maps.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, rawText string) (FieldMap, []byte /*rawJSON*/, error)
}
