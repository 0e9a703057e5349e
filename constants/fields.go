package constants

// Claim form field keys, in the order they appear on Form A.
// Every extraction result must carry exactly these keys; a field the
// extractors could not read holds "" rather than being absent.
const (
	FieldClaimantName       = "claimant_name"
	FieldSpouseName         = "spouse_name"
	FieldFatherOrMotherName = "father_or_mother_name"
	FieldAddress            = "address"
	FieldVillage            = "village"
	FieldGramPanchayat      = "gram_panchayat"
	FieldTehsilTaluka       = "tehsil_taluka"
	FieldDistrict           = "district"
	FieldState              = "state"
	FieldIsScheduledTribe   = "is_scheduled_tribe"
	FieldIsOTFD             = "is_otfd"
	FieldLandArea           = "land_area"
)

// FieldKeys lists the schema keys in canonical order.
var FieldKeys = []string{
	FieldClaimantName,
	FieldSpouseName,
	FieldFatherOrMotherName,
	FieldAddress,
	FieldVillage,
	FieldGramPanchayat,
	FieldTehsilTaluka,
	FieldDistrict,
	FieldState,
	FieldIsScheduledTribe,
	FieldIsOTFD,
	FieldLandArea,
}

// YesNoFields are constrained to {"", "Yes", "No"}.
var YesNoFields = map[string]struct{}{
	FieldIsScheduledTribe: {},
	FieldIsOTFD:           {},
}
