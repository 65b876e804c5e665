package googlesheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/reconcile"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"

	"github.com/xuri/excelize/v2"
)

const defaultRange = "A1:Z5000"

// SheetSource reads reconciliation rows from a spreadsheet range. The first row of
// the range is the header.
type SheetSource struct {
	reader        ValuesReader
	spreadsheetID string
	readRange     string
}

func NewSheetSource(reader ValuesReader, spreadsheetID, readRange string) *SheetSource {
	if readRange == "" {
		readRange = defaultRange
	}
	return &SheetSource{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}
}

func (s *SheetSource) Rows(ctx context.Context) ([]reconcile.Row, error) {
	if s.spreadsheetID == "" {
		return nil, custom_error.NewValidationError("spreadsheet_id", "is required")
	}

	values, err := s.reader.ReadRange(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, custom_error.NewValidationError("range", "range %s has no data rows", s.readRange)
	}

	records := make([][]string, len(values))
	for i, row := range values {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = toString(v)
		}
		records[i] = record
	}

	if err := reconcile.RequireColumns(records[0]); err != nil {
		return nil, err
	}
	return reconcile.RowsFromRecords(records, firstRow(s.readRange)), nil
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// firstRow is the sheet row number of the first cell of an A1 range, 1 when the
// range has no row component.
func firstRow(readRange string) int {
	if i := strings.LastIndex(readRange, "!"); i >= 0 {
		readRange = readRange[i+1:]
	}
	start, _, _ := strings.Cut(readRange, ":")
	_, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(start, "$", ""))
	if err != nil {
		return 1
	}
	return row
}
