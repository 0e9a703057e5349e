package llm

import (
	"testing"

	"github.com/vanadhikar/fra-claims/constants"
)

func TestCleanModelResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"claimant_name": "Ramesh"}`, `{"claimant_name": "Ramesh"}`},
		{"fenced with language tag", "```json\n{\"claimant_name\": \"Ramesh\"}\n```", `{"claimant_name": "Ramesh"}`},
		{"fenced without language tag", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"fence on same line as body", "```{\"a\": 1}```", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanModelResponse(tt.in); got != tt.want {
				t.Errorf("CleanModelResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFieldJSON(t *testing.T) {
	t.Run("all keys present", func(t *testing.T) {
		got, err := ParseFieldJSON(`{
			"claimant_name": "Ramesh Kumar",
			"spouse_name": "",
			"father_mother_name": "Mohan Kumar",
			"address": "House 42",
			"village": "Kothari",
			"gram_panchayat": "",
			"tehsil_taluka": "Wani",
			"district": "Yavatmal",
			"state": "Maharashtra",
			"is_scheduled_tribe": "Yes",
			"is_otfd": "No",
			"land_area": "2.5 hectares"
		}`)
		if err != nil {
			t.Fatalf("ParseFieldJSON() error = %v", err)
		}
		if got[constants.FieldClaimantName] != "Ramesh Kumar" {
			t.Errorf("claimant_name = %q", got[constants.FieldClaimantName])
		}
		if got[constants.FieldIsOTFD] != "No" {
			t.Errorf("is_otfd = %q, want %q", got[constants.FieldIsOTFD], "No")
		}
	})

	t.Run("missing and null keys default to empty", func(t *testing.T) {
		got, err := ParseFieldJSON(`{"claimant_name": "Anita", "village": null}`)
		if err != nil {
			t.Fatalf("ParseFieldJSON() error = %v", err)
		}
		if len(got) != len(constants.FieldKeys) {
			t.Fatalf("got %d keys, want %d", len(got), len(constants.FieldKeys))
		}
		if got[constants.FieldVillage] != "" {
			t.Errorf("null village = %q, want empty", got[constants.FieldVillage])
		}
		if got[constants.FieldDistrict] != "" {
			t.Errorf("missing district = %q, want empty", got[constants.FieldDistrict])
		}
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		got, err := ParseFieldJSON(`{"claimant_name": "Anita", "confidence": 0.9}`)
		if err != nil {
			t.Fatalf("ParseFieldJSON() error = %v", err)
		}
		if _, ok := got["confidence"]; ok {
			t.Error("unknown key survived parsing")
		}
	})

	t.Run("json embedded in prose", func(t *testing.T) {
		got, err := ParseFieldJSON(`Here is the extraction: {"claimant_name": "Ramesh"} as requested.`)
		if err != nil {
			t.Fatalf("ParseFieldJSON() error = %v", err)
		}
		if got[constants.FieldClaimantName] != "Ramesh" {
			t.Errorf("claimant_name = %q", got[constants.FieldClaimantName])
		}
	})

	t.Run("scalar coercion", func(t *testing.T) {
		got, err := ParseFieldJSON(`{"land_area": 2.5, "is_scheduled_tribe": "YES"}`)
		if err != nil {
			t.Fatalf("ParseFieldJSON() error = %v", err)
		}
		if got[constants.FieldLandArea] != "2.5" {
			t.Errorf("land_area = %q, want %q", got[constants.FieldLandArea], "2.5")
		}
		if got[constants.FieldIsScheduledTribe] != "Yes" {
			t.Errorf("is_scheduled_tribe = %q, want canonical %q", got[constants.FieldIsScheduledTribe], "Yes")
		}
	})

	t.Run("no object at all", func(t *testing.T) {
		if _, err := ParseFieldJSON("sorry, I cannot help with that"); err == nil {
			t.Error("expected error for response without JSON")
		}
	})
}

func TestCanonicalYesNo(t *testing.T) {
	tests := []struct{ in, want string }{
		{"yes", "Yes"},
		{"YES", "Yes"},
		{" No ", "No"},
		{"maybe", ""},
		{"", ""},
		{"y", ""},
	}
	for _, tt := range tests {
		if got := CanonicalYesNo(tt.in); got != tt.want {
			t.Errorf("CanonicalYesNo(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFieldMapCompleteAndAllBlank(t *testing.T) {
	m := FieldMap{constants.FieldVillage: "Kothari", "stray": "x"}
	m.Complete()

	if len(m) != len(constants.FieldKeys) {
		t.Fatalf("Complete() left %d keys, want %d", len(m), len(constants.FieldKeys))
	}
	if _, ok := m["stray"]; ok {
		t.Error("Complete() kept a key outside the schema")
	}
	if m.AllBlank() {
		t.Error("AllBlank() = true for map with a populated field")
	}

	if !NewFieldMap().AllBlank() {
		t.Error("AllBlank() = false for fresh map")
	}
	if !(FieldMap{constants.FieldVillage: "   "}).AllBlank() {
		t.Error("AllBlank() = false for whitespace-only values")
	}
}

func TestValidateAgainstSchema(t *testing.T) {
	schema := BuildClaimJSONSchema()

	ok := NewFieldMap()
	ok[constants.FieldClaimantName] = "Ramesh Kumar"
	ok[constants.FieldIsScheduledTribe] = "Yes"
	if err := ValidateAgainstSchema(schema, ok); err != nil {
		t.Errorf("ValidateAgainstSchema() error on valid map: %v", err)
	}

	bad := NewFieldMap()
	bad[constants.FieldIsOTFD] = "maybe"
	if err := ValidateAgainstSchema(schema, bad); err == nil {
		t.Error("ValidateAgainstSchema() accepted an out-of-enum flag value")
	}
}
