package labs

import (
	"bytes"
	"fmt"

	"inventory-sync/core/reconcile"

	"github.com/xuri/excelize/v2"
)

var reportHeader = []string{"Candidate ID", "Canonical Key", "Strategy", "Owner Identity", "Warning"}

// ExportReportXLSX renders a reconciliation report as a spreadsheet: matched
// results first, unmatched candidates after them.
func ExportReportXLSX(report *reconcile.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, toCells(reportHeader)); err != nil {
		return nil, err
	}

	row := 2
	for _, r := range report.Results {
		cells := []any{r.CandidateID, r.CanonicalKey, string(r.Strategy), r.OwnerIdentity, r.Warning}
		if err := writeRow(f, sheet, row, cells); err != nil {
			return nil, err
		}
		row++
	}
	for _, c := range report.Unmatched {
		cells := []any{c.ExternalID, "", string(reconcile.StrategyUnmatched), c.OwnerIdentity, c.Label}
		if err := writeRow(f, sheet, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering reconciliation report: %w", err)
	}
	return buf, nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toCells(ss []string) []any {
	cells := make([]any, len(ss))
	for i, s := range ss {
		cells[i] = s
	}
	return cells
}
