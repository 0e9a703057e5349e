package fallback

import (
	"regexp"
	"strings"

	"github.com/vanadhikar/fra-claims/constants"
	"github.com/vanadhikar/fra-claims/internal/llm"
)

// filterFunc is a plausibility guard applied to a captured value. It
// returns the cleaned value and whether the capture is acceptable; a
// rejected capture lets later candidates for the same field run.
type filterFunc func(string) (string, bool)

// candidate pairs one pattern with its filter. Patterns with several
// capture groups (land area) report the groups joined with a space.
type candidate struct {
	re     *regexp.Regexp
	filter filterFunc
}

// fieldRule is an ordered candidate list for one schema field;
// the first candidate whose capture passes its filter wins.
type fieldRule struct {
	field      string
	candidates []candidate
}

func minLen(n int) filterFunc {
	return func(s string) (string, bool) {
		s = strings.TrimSpace(s)
		return s, len(s) > n
	}
}

// trailing commas are frequent OCR debris after place names
func placeName(n int) filterFunc {
	return func(s string) (string, bool) {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ","))
		return s, len(s) > n
	}
}

// boilerplateWords appear in form instructions; a "name" containing one is
// a label capture gone wrong, not a claimant.
var boilerplateWords = []string{"form", "claim", "rights", "forest"}

func personName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) <= 2 {
		return s, false
	}
	lower := strings.ToLower(s)
	for _, w := range boilerplateWords {
		if strings.Contains(lower, w) {
			return s, false
		}
	}
	return s, true
}

func yesNo(s string) (string, bool) {
	v := llm.CanonicalYesNo(s)
	return v, v != ""
}

func verbatim(s string) (string, bool) {
	return strings.TrimSpace(s), true
}

// rules drives the fallback extraction: one entry per schema field, ordered
// candidates, first match that passes its filter wins, fields independent.
var rules = []fieldRule{
	{
		field: constants.FieldClaimantName,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)name of the claimant[^:\n]*:\s*([a-z0-9 .]+?)\s*(?:\n|name of the spouse|$)`), personName},
			{regexp.MustCompile(`(?i)name of the claimant[^:\n]*:\s*([a-z0-9 .]+)`), personName},
			{regexp.MustCompile(`(?i)claimant[:\s]+([a-z .]+)`), personName},
		},
	},
	{
		field: constants.FieldSpouseName,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)name of the spouse[:\s]*([a-z0-9 .]+?)\s*(?:\n|name of (?:the )?father|name of (?:the )?mother|$)`), minLen(2)},
			{regexp.MustCompile(`(?i)name of the spouse[:\s]*([a-z0-9 .]+)`), minLen(2)},
			{regexp.MustCompile(`(?i)spouse[:\s]+([a-z0-9 .]+)`), minLen(2)},
		},
	},
	{
		field: constants.FieldFatherOrMotherName,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)name of (?:the )?father[:\s]*([a-z .]+?)\s*(?:\n|address|$)`), minLen(2)},
			{regexp.MustCompile(`(?i)name of (?:the )?mother[:\s]*([a-z .]+?)\s*(?:\n|address|$)`), minLen(2)},
			{regexp.MustCompile(`(?i)name of (?:the )?(?:father|mother)[:\s]*([a-z .]+)`), minLen(2)},
			{regexp.MustCompile(`(?i)father[:\s]+([a-z .]+)`), minLen(2)},
			{regexp.MustCompile(`(?i)mother[:\s]+([a-z .]+)`), minLen(2)},
		},
	},
	{
		field: constants.FieldAddress,
		candidates: []candidate{
			// the label is often mangled by OCR ("Adaress"); capture may span
			// line breaks until the next known label
			{regexp.MustCompile(`(?i)(?:address|adaress)[:\s]*([a-z0-9\s,.\-/]+?)\s*(?:village|district|$)`), minLen(5)},
			{regexp.MustCompile(`(?i)(?:address|adaress)[:\s]*([a-z0-9 ,.\-/]+)`), minLen(5)},
		},
	},
	{
		field: constants.FieldVillage,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)village[:\s]*([a-z0-9 ,]+?)\s*(?:\n|gram panchayat|tehsil|taluka|district|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)village[:\s]*([a-z0-9 ,]+)`), placeName(2)},
		},
	},
	{
		field: constants.FieldGramPanchayat,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)gram panchayat[:\s]*([a-z0-9 ,]+?)\s*(?:\n|tehsil|taluka|district|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)gram panchayat[:\s]*([a-z0-9 ,]+)`), placeName(2)},
		},
	},
	{
		field: constants.FieldTehsilTaluka,
		candidates: []candidate{
			// tolerate noise between the two label words ("Tehsil! Taluka")
			{regexp.MustCompile(`(?i)tehsil\W{0,3}taluka[:\s]*([a-z0-9 ,]+?)\s*(?:\n|district|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)(?:tehsil|taluka)[:\s]*([a-z0-9 ,]+?)\s*(?:\n|district|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)(?:tehsil|taluka)[:\s]*([a-z0-9 ,]+)`), placeName(2)},
		},
	},
	{
		field: constants.FieldDistrict,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)district[:\s]*([a-z ,]+?)\s*(?:\n|state|pin|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)district[:\s]*([a-z ,]+)`), placeName(2)},
		},
	},
	{
		field: constants.FieldState,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)\bstate[:\s]*([a-z ,]+?)\s*(?:\n|pin|$)`), placeName(2)},
			{regexp.MustCompile(`(?i)\bstate[:\s]*([a-z ,]+)`), placeName(2)},
		},
	},
	{
		field: constants.FieldIsScheduledTribe,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)scheduled tribes?[:\s()\[\]]*(yes|no)\b`), yesNo},
			{regexp.MustCompile(`(?i)\bST\b[:\s()\[\]]*(yes|no)\b`), yesNo},
		},
	},
	{
		field: constants.FieldIsOTFD,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)other traditional forest dwellers?[:\s()\[\]]*(yes|no)\b`), yesNo},
			{regexp.MustCompile(`(?i)\bOTFD\b[:\s()\[\]]*(yes|no)\b`), yesNo},
		},
	},
	{
		field: constants.FieldLandArea,
		candidates: []candidate{
			{regexp.MustCompile(`(?i)area[^\n0-9]*(\d+(?:\.\d+)?)\s*(hectares?|acres?|ha|ac)\b`), verbatim},
			{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(hectares?|acres?|ha|ac)\b`), verbatim},
		},
	},
}
