package models

import (
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
)

// AssignmentProjection is the flattened, read-only row handed to report renderers.
type AssignmentProjection struct {
	AssignmentID  int        `db:"assignment_id"`
	EmployeeName  string     `db:"employee_name"`
	Role          string     `db:"role_name"`
	Area          string     `db:"area_name"`
	Company       string     `db:"company_name"`
	City          string     `db:"city_name"`
	EquipmentType string     `db:"equipment_type_name"`
	Brand         string     `db:"brand"`
	Reference     string     `db:"reference"`
	RAM           string     `db:"ram"`
	Storage       string     `db:"storage"`
	Serial        *string    `db:"serial"`
	Site          *string    `db:"site_name"`
	AssignedAt    time.Time  `db:"assigned_at"`
	RetiredAt     *time.Time `db:"retired_at"`
	HandedOverBy  *string    `db:"handed_over_by"`
	Note          string     `db:"note"`
	Active        bool       `db:"is_active"`
}

func (p *AssignmentProjection) Status() metadata.Status {
	return metadata.StatusFromActive(p.Active)
}

type ProjectionFilter struct {
	Active    *bool
	CompanyID *int
	CityID    *int
}
