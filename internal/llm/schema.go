package llm

import "github.com/vanadhikar/fra-claims/constants"

// BuildClaimJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// twelve-key claim field object. We use it locally to validate normalized
// model output before accepting it.
func BuildClaimJSONSchema() map[string]any {
	props := make(map[string]any, len(constants.FieldKeys))
	for _, k := range constants.FieldKeys {
		if _, yn := constants.YesNoFields[k]; yn {
			props[k] = map[string]any{"enum": []any{"", "Yes", "No"}}
			continue
		}
		props[k] = map[string]any{"type": "string"}
	}

	required := make([]any, 0, len(constants.FieldKeys))
	for _, k := range constants.FieldKeys {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
