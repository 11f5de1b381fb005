package loader

import (
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Sternrassler/vehicle-catalog/internal/testutil"
)

// writeSheet writes rows under a sorted header row.
func writeSheet(t *testing.T, f *excelize.File, sheet string, rows []map[string]any) {
	t.Helper()

	var header []string
	for _, row := range rows {
		for k := range row {
			if !slices.Contains(header, k) {
				header = append(header, k)
			}
		}
	}
	slices.Sort(header)

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}
	for r, row := range rows {
		for col, name := range header {
			v, ok := row[name]
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
}

// fixtureWorkbook writes the fixture rows with models on their own sheet and
// everything else on a sheet the classifier has to sort.
func fixtureWorkbook(t *testing.T) string {
	t.Helper()

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(testutil.FixtureRowsJSON), &rows))

	var models, loose []map[string]any
	for _, row := range rows {
		delete(row, "row_number")
		if _, ok := row["model_code"]; ok {
			models = append(models, row)
		} else {
			loose = append(loose, row)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	writeSheet(t, f, "Sheet1", loose)
	_, err := f.NewSheet("Models")
	require.NoError(t, err)
	writeSheet(t, f, "Models", models)

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbook_Load(t *testing.T) {
	snap, err := NewWorkbook(fixtureWorkbook(t), nil).Load(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, SourceWorkbook, snap.Source)
	assert.Equal(t, testutil.FixtureTables(), snap.Tables)
}

func TestWorkbook_TableSheetDecodesDirectly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "pricing"))
	// A base rule has neither pincode field; the sheet name alone places it.
	writeSheet(t, f, "pricing", []map[string]any{
		{"id": "p9", "model_id": "9", "state": "Goa", "base_price": "1,20,000", "fulfillment_fee": 500},
	})
	path := filepath.Join(t.TempDir(), "pricing.xlsx")
	require.NoError(t, f.SaveAs(path))

	snap, err := NewWorkbook(path, nil).Load(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, snap.Pricing, 1)
	assert.Equal(t, int64(120000), snap.Pricing[0].BasePrice)
	assert.True(t, snap.Pricing[0].IsBase())
}

func TestWorkbook_MissingFile(t *testing.T) {
	_, err := NewWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), nil).Load(context.Background(), false)
	assert.Error(t, err)
}

func TestWorkbook_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbook(fixtureWorkbook(t), nil).Load(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}
