package labs

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func registrySheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil, "helpdesk", time.Minute, zap.NewNop())

	buf := registrySheet(t, [][]any{
		{"Lab Key", "Owner Email", "Display Name", "Notes"},
		{"Aabol", "u1@example.com", "Aabol Lab", "building 3"},
		{"csmonk", "u2@example.com", "Csmonk Lab"},
		{"", "orphan@example.com"},
		{"badmail", "not-an-email"},
	})

	summary, err := svc.ImportXLSX(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	require.Len(t, summary.Errors, 2)
	assert.Contains(t, summary.Errors[0], "missing lab key")
	assert.Contains(t, summary.Errors[1], "invalid owner email")

	labs, err := store.Labs(context.Background())
	require.NoError(t, err)
	require.Len(t, labs, 2)
	// Keys are normalized to lower case.
	assert.Equal(t, "aabol", labs[0].LabKey)
	assert.Equal(t, "u1@example.com", labs[0].OwnerEmail)
	assert.Equal(t, "building 3", labs[0].Notes)
}

func TestImportXLSXReplacesExistingKey(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil, "helpdesk", time.Minute, zap.NewNop())

	first := registrySheet(t, [][]any{
		{"Lab Key", "Owner Email"},
		{"aabol", "u1@example.com"},
	})
	_, err := svc.ImportXLSX(context.Background(), first)
	require.NoError(t, err)

	second := registrySheet(t, [][]any{
		{"Lab Key", "Owner Email"},
		{"aabol", "u9@example.com"},
	})
	_, err = svc.ImportXLSX(context.Background(), second)
	require.NoError(t, err)

	identities, err := store.IdentityMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u9@example.com", identities["aabol"])
}

func TestImportXLSXEmptySheet(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil, "helpdesk", time.Minute, zap.NewNop())

	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.ImportXLSX(context.Background(), buf)
	assert.ErrorContains(t, err, "empty")
}

func TestImportXLSXNotASpreadsheet(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, nil, "helpdesk", time.Minute, zap.NewNop())

	_, err := svc.ImportXLSX(context.Background(), bytes.NewBufferString("plain text"))
	assert.Error(t, err)
}
