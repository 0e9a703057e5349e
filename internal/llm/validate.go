package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateAgainstSchema validates a normalized FieldMap against the claim
// JSON schema. A violation here means the model response cannot be trusted
// and the caller should fall back to pattern extraction.
func ValidateAgainstSchema(schemaMap map[string]any, fields FieldMap) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("claim-fields.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("claim-fields.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	doc := make(map[string]any, len(fields))
	for k, v := range fields {
		doc[k] = v
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("fields do not match schema: %w", err)
	}
	return nil
}
