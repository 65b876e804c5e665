package models

import (
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
)

type Assignment struct {
	ID           int        `json:"id" db:"id"`
	EmployeeID   int        `json:"employee_id" db:"employee_id"`
	AssetID      int        `json:"asset_id" db:"asset_id"`
	SiteID       *int       `json:"site_id" db:"site_id"`
	AssignedAt   time.Time  `json:"assigned_at" db:"assigned_at"`
	RetiredAt    *time.Time `json:"retired_at" db:"retired_at"`
	HandedOverBy *string    `json:"handed_over_by" db:"handed_over_by"`
	Note         string     `json:"note" db:"note"`
	Active       bool       `json:"is_active" db:"is_active"`
	CreatedByID  *int       `json:"created_by_id,omitempty" db:"created_by_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (a *Assignment) Status() metadata.Status {
	return metadata.StatusFromActive(a.Active)
}

func (a *Assignment) CreateLogView() AuditEntry {
	entry := AuditEntry{
		EmployeeID: a.EmployeeID,
		AssetID:    a.AssetID,
	}
	if a.ID != 0 {
		id := a.ID
		entry.AssignmentID = &id
	}
	return entry
}

// AssignmentChanges is the whitelist of columns an update may touch. A change of
// EmployeeID or AssetID turns the update into a reassignment.
type AssignmentChanges struct {
	EmployeeID   *int       `json:"employee_id" binding:"omitempty,gt=0"`
	AssetID      *int       `json:"asset_id" binding:"omitempty,gt=0"`
	SiteID       *int       `json:"site_id" binding:"omitempty,gt=0"`
	HandedOverBy *string    `json:"handed_over_by" binding:"omitempty,max=100"`
	Note         *string    `json:"note" binding:"omitempty,max=500"`
	AssignedAt   *time.Time `json:"assigned_at"`
}

func (c *AssignmentChanges) HasChanges() bool {
	return c.EmployeeID != nil || c.AssetID != nil || c.SiteID != nil ||
		c.HandedOverBy != nil || c.Note != nil || c.AssignedAt != nil
}

type AssignmentFilter struct {
	EmployeeID *int
	AssetID    *int
	Active     *bool
}
