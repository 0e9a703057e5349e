package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vanadhikar/fra-claims/internal/repository"
)

// Service is a tiny façade over the claim repository that produces XLSX
// bytes for review exports.
type Service struct {
	claims repository.ClaimRepository
	logger *slog.Logger
}

func NewService(claims repository.ClaimRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{claims: claims, logger: logger}
}

// ExportClaimsXLSX returns an XLSX workbook (as bytes) of all stored
// claims, newest first, one row per claim summary.
func (s *Service) ExportClaimsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	summaries, err := s.claims.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Claims"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"ID",
		"Source File",
		"Claimant Name",
		"Village",
		"District",
		"Land Area",
		"Status",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, c := range summaries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.ID)
		write(2, c.SourceFilename)
		write(3, c.ClaimantName)
		write(4, c.Village)
		write(5, c.District)
		write(6, c.LandArea)
		write(7, c.Status)
		write(8, c.CreatedAt.Format(time.RFC3339))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("claims export built",
		"rows", len(summaries),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
