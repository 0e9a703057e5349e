package entity

import "time"

// Claim is one stored claim-form record: the twelve extracted fields plus
// provenance (source file, raw OCR text, confidence) and lifecycle state.
type Claim struct {
	ID                 int64     `db:"id" json:"id"`
	SourceFilename     string    `db:"source_filename" json:"source_filename"`
	ClaimantName       string    `db:"claimant_name" json:"claimant_name"`
	SpouseName         string    `db:"spouse_name" json:"spouse_name"`
	FatherOrMotherName string    `db:"father_or_mother_name" json:"father_or_mother_name"`
	Address            string    `db:"address" json:"address"`
	Village            string    `db:"village" json:"village"`
	GramPanchayat      string    `db:"gram_panchayat" json:"gram_panchayat"`
	TehsilTaluka       string    `db:"tehsil_taluka" json:"tehsil_taluka"`
	District           string    `db:"district" json:"district"`
	State              string    `db:"state" json:"state"`
	IsScheduledTribe   string    `db:"is_scheduled_tribe" json:"is_scheduled_tribe"`
	IsOTFD             string    `db:"is_otfd" json:"is_otfd"`
	LandArea           string    `db:"land_area" json:"land_area"`
	RawText            string    `db:"raw_text" json:"raw_text"`
	OCRConfidence      float64   `db:"ocr_confidence" json:"ocr_confidence"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	Status             string    `db:"status" json:"status"`
}

// ClaimSummary is the listing row shape: the columns the review dashboard
// shows, newest first.
type ClaimSummary struct {
	ID             int64     `db:"id" json:"id"`
	SourceFilename string    `db:"source_filename" json:"source_filename"`
	ClaimantName   string    `db:"claimant_name" json:"claimant_name"`
	Village        string    `db:"village" json:"village"`
	District       string    `db:"district" json:"district"`
	LandArea       string    `db:"land_area" json:"land_area"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
