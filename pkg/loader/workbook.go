package loader

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/classify"
)

// SourceWorkbook is the Source of spreadsheet snapshots.
const SourceWorkbook = "xlsx"

// Workbook reads the catalog from an .xlsx file. The first row of every sheet
// holds the column names.
type Workbook struct {
	path       string
	classifier *classify.Classifier
	logger     zerolog.Logger
}

// NewWorkbook creates a workbook loader. A nil classifier means
// classify.New().
func NewWorkbook(path string, classifier *classify.Classifier) *Workbook {
	if classifier == nil {
		classifier = classify.New()
	}
	return &Workbook{
		path:       path,
		classifier: classifier,
		logger:     log.With().Str("component", "xlsx-loader").Logger(),
	}
}

// Load implements Loader. The file is re-read on every call so edits show up
// on the next refresh.
func (w *Workbook) Load(ctx context.Context, _ bool) (*catalog.Snapshot, error) {
	start := time.Now()
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var tables catalog.Tables
	var loose []classify.Row
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := sheetRows(f, sheet)
		if err != nil {
			return nil, err
		}

		table := strings.ToLower(strings.TrimSpace(sheet))
		if !slices.Contains(catalog.TableNames, table) {
			loose = append(loose, rows...)
			continue
		}
		for i, row := range rows {
			if err := classify.Decode(table, row, &tables); err != nil {
				return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
			}
		}
	}

	if len(loose) > 0 {
		classified, _, err := w.classifier.Classify(loose)
		if err != nil {
			return nil, err
		}
		appendTables(&tables, classified)
	}

	w.logger.Info().
		Str("path", w.path).
		Int("rows", tables.RowCount()).
		Dur("duration", time.Since(start)).
		Msg("Workbook read")
	return catalog.NewSnapshot(SourceWorkbook, tables), nil
}

// sheetRows converts a sheet into rows keyed by the header row. Blank cells
// are left out so they read as absent fields.
func sheetRows(f *excelize.File, sheet string) ([]classify.Row, error) {
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]classify.Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(classify.Row)
		for i, v := range line {
			if i >= len(header) || header[i] == "" || strings.TrimSpace(v) == "" {
				continue
			}
			row[header[i]] = v
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func appendTables(dst *catalog.Tables, src catalog.Tables) {
	dst.Models = append(dst.Models, src.Models...)
	dst.Variants = append(dst.Variants, src.Variants...)
	dst.Colors = append(dst.Colors, src.Colors...)
	dst.Components = append(dst.Components, src.Components...)
	dst.Pricing = append(dst.Pricing, src.Pricing...)
	dst.InsuranceProviders = append(dst.InsuranceProviders, src.InsuranceProviders...)
	dst.InsurancePlans = append(dst.InsurancePlans, src.InsurancePlans...)
	dst.FinanceProviders = append(dst.FinanceProviders, src.FinanceProviders...)
	dst.FinanceOptions = append(dst.FinanceOptions, src.FinanceOptions...)
}
