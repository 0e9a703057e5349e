package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vanadhikar/fra-claims/constants"
)

// CleanModelResponse strips Markdown code-fence delimiters (with an
// optional language tag) from a model reply so the remainder can be
// parsed as JSON.
func CleanModelResponse(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		// drop a language tag like "json" on the fence line
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 {
			first := strings.TrimSpace(cleaned[:nl])
			if first != "" && !strings.ContainsAny(first, "{}") {
				cleaned = cleaned[nl+1:]
			}
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.Trim(cleaned, "` \n")
}

// ParseFieldJSON parses a cleaned model response into a FieldMap. If the
// text is not directly a JSON object it retries on the substring between
// the first '{' and the last '}'. Missing keys default to "", nulls become
// "", and scalar values are coerced to trimmed strings.
func ParseFieldJSON(content string) (FieldMap, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		start := strings.IndexByte(content, '{')
		end := strings.LastIndexByte(content, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("parse field json: %w", err)
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), &obj); err2 != nil {
			return nil, fmt.Errorf("parse field json: %w", err2)
		}
	}

	out := NewFieldMap()
	for k := range out {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(coerceString(v))
		if _, yn := constants.YesNoFields[k]; yn {
			s = CanonicalYesNo(s)
		}
		out[k] = s
	}
	return out, nil
}

// CanonicalYesNo maps case-insensitive yes/no answers onto the {"", "Yes",
// "No"} set; anything else collapses to "".
func CanonicalYesNo(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return "Yes"
	case "no":
		return "No"
	default:
		return ""
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
