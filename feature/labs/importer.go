package labs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/inventory/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportSummary reports the outcome of a registry import.
type ImportSummary struct {
	// Imported counts the rows upserted into the registry.
	Imported int `json:"imported"`

	// Errors holds per-row validation failures. Rows fail individually; the
	// import continues past them.
	Errors []string `json:"errors,omitempty"`
}

// ImportXLSX loads registry entries from a spreadsheet. The first sheet is
// read; the first row is treated as a header. Columns are lab key, owner
// email, display name and optional notes. A successful import invalidates
// the cached identity map.
func (s *Service) ImportXLSX(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	summary := &ImportSummary{}
	for i, row := range rows[1:] {
		rowNo := i + 2

		labKey := ""
		if len(row) > 0 {
			labKey = strings.ToLower(strings.TrimSpace(row[0]))
		}
		if labKey == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: missing lab key", rowNo))
			continue
		}

		lab := &models.Lab{LabKey: labKey}
		if len(row) > 1 {
			lab.OwnerEmail = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			lab.DisplayName = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			lab.Notes = strings.TrimSpace(row[3])
		}
		if lab.OwnerEmail != "" && !strings.Contains(lab.OwnerEmail, "@") {
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: invalid owner email %q", rowNo, lab.OwnerEmail))
			continue
		}

		if err := s.store.UpsertLab(ctx, lab); err != nil {
			return summary, fmt.Errorf("row %d: %w", rowNo, err)
		}
		summary.Imported++
	}

	if summary.Imported > 0 {
		reconcile.InvalidateIdentityMap(identityCacheKey)
	}

	s.logger.Info("Lab registry imported",
		zap.Int("imported", summary.Imported),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}
