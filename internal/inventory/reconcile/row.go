package reconcile

import (
	"context"
	"strings"

	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
)

// Row is one loosely structured input record. Every field is raw text as it came
// from the source; Line is the source line number when the source has one.
type Row struct {
	Line          int    `json:"line,omitempty"`
	Employee      string `json:"employee"`
	Role          string `json:"role"`
	Area          string `json:"area"`
	Company       string `json:"company"`
	City          string `json:"city"`
	Site          string `json:"site"`
	EquipmentType string `json:"type"`
	Brand         string `json:"brand"`
	Reference     string `json:"reference"`
	RAM           string `json:"ram"`
	Storage       string `json:"storage"`
	Serial        string `json:"serial"`
	Notes         string `json:"notes"`
	HandedOverBy  string `json:"handed_over_by"`
	Date          string `json:"date"`
}

// RowSource produces the rows of one batch in input order.
type RowSource interface {
	Rows(ctx context.Context) ([]Row, error)
}

// SliceSource serves rows already held in memory, such as a JSON request body.
type SliceSource []Row

func (s SliceSource) Rows(ctx context.Context) ([]Row, error) {
	return s, nil
}

const (
	fieldEmployee      = "employee"
	fieldRole          = "role"
	fieldArea          = "area"
	fieldCompany       = "company"
	fieldCity          = "city"
	fieldSite          = "site"
	fieldEquipmentType = "type"
	fieldBrand         = "brand"
	fieldReference     = "reference"
	fieldRAM           = "ram"
	fieldStorage       = "storage"
	fieldSerial        = "serial"
	fieldNotes         = "notes"
	fieldHandedOverBy  = "handed_over_by"
	fieldDate          = "date"
)

// headerAliases is keyed by metadata.HeaderKey of the header text, so case, accents
// and separators do not matter.
var headerAliases = map[string]string{
	"employee":         fieldEmployee,
	"employee name":    fieldEmployee,
	"responsable":      fieldEmployee,
	"empleado":         fieldEmployee,
	"nombre":           fieldEmployee,
	"role":             fieldRole,
	"cargo":            fieldRole,
	"area":             fieldArea,
	"company":          fieldCompany,
	"empresa":          fieldCompany,
	"city":             fieldCity,
	"ciudad":           fieldCity,
	"site":             fieldSite,
	"sede":             fieldSite,
	"type":             fieldEquipmentType,
	"equipment type":   fieldEquipmentType,
	"tipo equipo":      fieldEquipmentType,
	"tipo de equipo":   fieldEquipmentType,
	"brand":            fieldBrand,
	"marca":            fieldBrand,
	"reference":        fieldReference,
	"model":            fieldReference,
	"referencia":       fieldReference,
	"caracteristicas":  fieldReference,
	"ram":              fieldRAM,
	"memoria ram":      fieldRAM,
	"memory":           fieldRAM,
	"storage":          fieldStorage,
	"disco duro":       fieldStorage,
	"disk":             fieldStorage,
	"serial":           fieldSerial,
	"serial number":    fieldSerial,
	"notes":            fieldNotes,
	"observacion":      fieldNotes,
	"observaciones":    fieldNotes,
	"handed over by":   fieldHandedOverBy,
	"quien entrega":    fieldHandedOverBy,
	"date":             fieldDate,
	"assigned at":      fieldDate,
	"fecha":            fieldDate,
	"fecha asignacion": fieldDate,
}

// MapHeaders returns the column index of every recognised header. The first
// column wins when a field appears twice.
func MapHeaders(headers []string) map[string]int {
	columns := make(map[string]int, len(headers))
	for i, header := range headers {
		field, ok := headerAliases[metadata.HeaderKey(header)]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	return columns
}

// RequireColumns rejects a header without the employee or brand column.
func RequireColumns(header []string) error {
	columns := MapHeaders(header)
	for _, required := range []string{fieldEmployee, fieldBrand} {
		if _, ok := columns[required]; !ok {
			return custom_error.NewValidationError("file", "missing %s column", required)
		}
	}
	return nil
}

// RowsFromRecords turns a header record followed by data records into rows.
// firstLine is the source line number of the header. Records with no content are
// skipped.
func RowsFromRecords(records [][]string, firstLine int) []Row {
	if len(records) < 2 {
		return nil
	}
	columns := MapHeaders(records[0])

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rows = append(rows, Row{
			Line:          firstLine + i + 1,
			Employee:      cell(fieldEmployee),
			Role:          cell(fieldRole),
			Area:          cell(fieldArea),
			Company:       cell(fieldCompany),
			City:          cell(fieldCity),
			Site:          cell(fieldSite),
			EquipmentType: cell(fieldEquipmentType),
			Brand:         cell(fieldBrand),
			Reference:     cell(fieldReference),
			RAM:           cell(fieldRAM),
			Storage:       cell(fieldStorage),
			Serial:        cell(fieldSerial),
			Notes:         cell(fieldNotes),
			HandedOverBy:  cell(fieldHandedOverBy),
			Date:          cell(fieldDate),
		})
	}
	return rows
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
