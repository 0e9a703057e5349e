package llm

import (
	"strings"

	"github.com/vanadhikar/fra-claims/constants"
)

// BuildSystemPrompt composes the fixed instruction for claim-form field
// extraction: all twelve schema keys, empty string for anything not clearly
// present, no invented values.
func BuildSystemPrompt() string {
	parts := []string{
		"You are an expert in interpreting FRA (Forest Rights Act) Claim Forms (Form A).",
		"Analyze the OCR text from a claim form and extract the following fields: " +
			strings.Join(constants.FieldKeys, ", ") + ".",
		"Only extract information that is clearly present in the document.",
		"If a field is missing, unclear, or not mentioned, use the empty string \"\".",
		"Avoid inventing any values.",
		"Be very careful with names and addresses; extract them exactly as written, cleaning obvious OCR errors.",
		"For is_scheduled_tribe and is_otfd use exactly \"Yes\" or \"No\", or \"\" if not specified.",
		"Return ONLY a valid JSON object with exactly the keys listed above, all values strings.",
		"Never output null.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the OCR text, truncated to keep the request
// bounded on pathological documents.
func BuildUserPrompt(rawText string) string {
	const maxChars = 12000

	var b strings.Builder
	b.WriteString("OCR Text:\n---\n")
	text := strings.TrimSpace(rawText)
	if len(text) > maxChars {
		b.WriteString(text[:maxChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	b.WriteString("\n---\n\nReturn only the JSON response:")
	return b.String()
}
