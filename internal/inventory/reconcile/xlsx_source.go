package reconcile

import (
	"context"
	"fmt"
	"io"

	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the first sheet of a workbook. The first row is the header.
type XLSXSource struct {
	r     io.Reader
	sheet string
}

func NewXLSXSource(r io.Reader) *XLSXSource {
	return &XLSXSource{r: r}
}

// WithSheet reads the named sheet instead of the first one.
func (s *XLSXSource) WithSheet(name string) *XLSXSource {
	s.sheet = name
	return s
}

func (s *XLSXSource) Rows(ctx context.Context) ([]Row, error) {
	f, err := excelize.OpenReader(s.r)
	if err != nil {
		return nil, custom_error.NewValidationError("file", "unable to read workbook: %s", err.Error())
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, custom_error.NewValidationError("sheet", "sheet %q not found", sheet)
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(records) < 2 {
		return nil, custom_error.NewValidationError("file", "workbook has no data rows")
	}

	if err := RequireColumns(records[0]); err != nil {
		return nil, err
	}

	return RowsFromRecords(records, 1), nil
}
