package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vanadhikar/fra-claims/constants"
	"github.com/vanadhikar/fra-claims/internal/common"
	"github.com/vanadhikar/fra-claims/internal/entity"
	"github.com/vanadhikar/fra-claims/internal/export"
	"github.com/vanadhikar/fra-claims/internal/pipeline"
	"github.com/vanadhikar/fra-claims/internal/repository"
)

// maxUploadBytes caps multipart uploads; scanned forms are a few MB.
const maxUploadBytes = 32 << 20

// DocumentProcessor is the pipeline boundary the handlers depend on.
type DocumentProcessor interface {
	Process(ctx context.Context, data []byte, filename string) (*pipeline.Result, error)
}

type Handlers struct {
	processor DocumentProcessor
	claims    repository.ClaimRepository
	exporter  *export.Service
	logger    *slog.Logger
}

func NewHandlers(processor DocumentProcessor, claims repository.ClaimRepository, exporter *export.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{processor: processor, claims: claims, exporter: exporter, logger: logger}
}

// UploadDocument runs the extraction pipeline over a multipart upload and
// returns the best-effort field map. A document yielding no text at all is
// a 400; extraction degradation is not an error condition.
func (h *Handlers) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	res, err := h.processor.Process(r.Context(), data, header.Filename)
	if err != nil {
		if errors.Is(err, common.ErrEmptyText) {
			writeError(w, http.StatusBadRequest, "No text could be extracted from the document")
			return
		}
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.Code == "ACQUISITION_FAILED" {
			writeError(w, http.StatusBadRequest, "No text could be extracted from the document")
			return
		}
		h.logger.Error("upload processing failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename":        res.Filename,
		"raw_text":        res.RawText,
		"confidence":      res.Confidence,
		"extracted_data":  res.Fields,
		"full_address":    res.FullAddress,
		"processing_time": time.Now().Format(time.RFC3339),
	})
}

// saveClaimRequest carries the already-extracted values the client reviewed.
type saveClaimRequest struct {
	Filename           string  `json:"filename"`
	ClaimantName       string  `json:"claimant_name"`
	SpouseName         string  `json:"spouse_name"`
	FatherOrMotherName string  `json:"father_or_mother_name"`
	FullAddress        string  `json:"full_address"`
	Village            string  `json:"village"`
	GramPanchayat      string  `json:"gram_panchayat"`
	TehsilTaluka       string  `json:"tehsil_taluka"`
	District           string  `json:"district"`
	State              string  `json:"state"`
	IsScheduledTribe   string  `json:"is_scheduled_tribe"`
	IsOTFD             string  `json:"is_otfd"`
	LandArea           string  `json:"land_area"`
	RawText            string  `json:"raw_text"`
	Confidence         float64 `json:"confidence"`
}

func (h *Handlers) SaveClaim(w http.ResponseWriter, r *http.Request) {
	var req saveClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	claim := &entity.Claim{
		SourceFilename:     req.Filename,
		ClaimantName:       req.ClaimantName,
		SpouseName:         req.SpouseName,
		FatherOrMotherName: req.FatherOrMotherName,
		// the assembled full address is what reviewers see as the address
		Address:          req.FullAddress,
		Village:          req.Village,
		GramPanchayat:    req.GramPanchayat,
		TehsilTaluka:     req.TehsilTaluka,
		District:         req.District,
		State:            req.State,
		IsScheduledTribe: req.IsScheduledTribe,
		IsOTFD:           req.IsOTFD,
		LandArea:         req.LandArea,
		RawText:          req.RawText,
		OCRConfidence:    req.Confidence,
		Status:           string(constants.StatusPendingReview),
	}

	id, err := h.claims.Insert(r.Context(), claim)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save claim: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim saved successfully",
		"status":  "success",
		"id":      id,
	})
}

func (h *Handlers) ListClaims(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.claims.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch claims: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claims": summaries,
		"count":  len(summaries),
	})
}

func (h *Handlers) GetClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	claim, err := h.claims.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch claim: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (h *Handlers) UpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := h.claims.UpdateStatus(r.Context(), id, body.Status); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update status: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Status updated successfully"})
}

func (h *Handlers) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := claimID(w, r)
	if !ok {
		return
	}
	if err := h.claims.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete claim: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim deleted successfully",
		"status":  "success",
	})
}

func (h *Handlers) ExportClaims(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.ExportClaimsXLSX(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to export claims: %v", err))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="fra_claims.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "FRA claims API is running",
	})
}

func claimID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid claim id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
