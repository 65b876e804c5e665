package report

import (
	"bytes"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName  = "Inventario"
	dateLayout = "02/01/2006"
)

// Headers match the import aliases so an exported workbook can be imported again.
var workbookHeaders = []string{
	"Fecha", "Responsable", "Cargo", "Área", "Quién Entrega", "Empresa", "Ciudad", "Sede",
	"Tipo Equipo", "Marca", "Referencia", "Memoria RAM", "Disco Duro", "Serial",
	"Observación", "Fecha Retiro", "Estado",
}

var columnWidths = map[string]float64{
	"A": 12, "B": 28, "C": 20, "D": 18, "E": 20, "F": 20, "G": 14, "H": 14,
	"I": 16, "J": 14, "K": 22, "L": 12, "M": 14, "N": 18, "O": 36, "P": 12, "Q": 10,
}

// RenderWorkbook writes the projection rows as a single sheet workbook.
func RenderWorkbook(rows []models.AssignmentProjection) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(workbookHeaders))
	for i, title := range workbookHeaders {
		header[i] = title
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(workbookHeaders))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			row.AssignedAt.Format(dateLayout),
			row.EmployeeName,
			row.Role,
			row.Area,
			deref(row.HandedOverBy),
			row.Company,
			row.City,
			deref(row.Site),
			row.EquipmentType,
			row.Brand,
			row.Reference,
			row.RAM,
			row.Storage,
			deref(row.Serial),
			row.Note,
			"",
			row.Status().Label(),
		}
		if row.RetiredAt != nil {
			values[15] = row.RetiredAt.Format(dateLayout)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
