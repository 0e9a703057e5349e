package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vanadhikar/fra-claims/constants"
	"github.com/vanadhikar/fra-claims/internal/common"
	"github.com/vanadhikar/fra-claims/internal/entity"
)

// ClaimRepository is the persistence gateway: the pipeline and handlers
// never depend on storage internals beyond this contract.
type ClaimRepository interface {
	Insert(ctx context.Context, claim *entity.Claim) (int64, error)
	List(ctx context.Context) ([]entity.ClaimSummary, error)
	Get(ctx context.Context, id int64) (*entity.Claim, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

type claimRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewClaimRepository(db *sqlx.DB, logger *slog.Logger) ClaimRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &claimRepository{db: db, logger: logger}
}

const insertClaimSQL = `
INSERT INTO ` + claimsTable + ` (
	source_filename, claimant_name, spouse_name, father_or_mother_name,
	address, village, gram_panchayat, tehsil_taluka, district, state,
	is_scheduled_tribe, is_otfd, land_area, raw_text, ocr_confidence,
	created_at, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Insert stores a claim with status pending_review and a fresh created_at,
// returning the assigned id.
func (r *claimRepository) Insert(ctx context.Context, claim *entity.Claim) (int64, error) {
	claim.CreatedAt = time.Now().UTC()
	if claim.Status == "" {
		claim.Status = string(constants.StatusPendingReview)
	}

	args := []any{
		claim.SourceFilename, claim.ClaimantName, claim.SpouseName, claim.FatherOrMotherName,
		claim.Address, claim.Village, claim.GramPanchayat, claim.TehsilTaluka, claim.District, claim.State,
		claim.IsScheduledTribe, claim.IsOTFD, claim.LandArea, claim.RawText, claim.OCRConfidence,
		claim.CreatedAt, claim.Status,
	}

	if r.db.DriverName() == "pgx" {
		var id int64
		q := r.db.Rebind(insertClaimSQL + " RETURNING id")
		if err := r.db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
			r.logger.Error("failed to insert claim", "error", err)
			return 0, common.WrapError(err, "insert claim")
		}
		claim.ID = id
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insertClaimSQL), args...)
	if err != nil {
		r.logger.Error("failed to insert claim", "error", err)
		return 0, common.WrapError(err, "insert claim")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.WrapError(err, "insert claim: last id")
	}
	claim.ID = id
	return id, nil
}

// List returns claim summaries, newest created_at first.
func (r *claimRepository) List(ctx context.Context) ([]entity.ClaimSummary, error) {
	const q = `
SELECT id, source_filename, claimant_name, village, district,
       land_area, status, created_at
FROM ` + claimsTable + `
ORDER BY created_at DESC, id DESC`

	summaries := []entity.ClaimSummary{}
	if err := r.db.SelectContext(ctx, &summaries, q); err != nil {
		r.logger.Error("failed to list claims", "error", err)
		return nil, common.WrapError(err, "list claims")
	}
	return summaries, nil
}

func (r *claimRepository) Get(ctx context.Context, id int64) (*entity.Claim, error) {
	q := r.db.Rebind(`SELECT * FROM ` + claimsTable + ` WHERE id = ?`)

	var claim entity.Claim
	if err := r.db.GetContext(ctx, &claim, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get claim", "id", id, "error", err)
		return nil, common.WrapError(err, "get claim")
	}
	return &claim, nil
}

func (r *claimRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	q := r.db.Rebind(`UPDATE ` + claimsTable + ` SET status = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		r.logger.Error("failed to update claim status", "id", id, "error", err)
		return common.WrapError(err, "update claim status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a claim by id; deleting an absent id reports not found,
// never silent success.
func (r *claimRepository) Delete(ctx context.Context, id int64) error {
	q := r.db.Rebind(`DELETE FROM ` + claimsTable + ` WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		r.logger.Error("failed to delete claim", "id", id, "error", err)
		return common.WrapError(err, "delete claim")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
