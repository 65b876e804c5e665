package models

import "time"

// AssetBinding records that an employee has ever held an asset.
type AssetBinding struct {
	EmployeeID   int       `json:"employee_id" db:"employee_id"`
	AssetID      int       `json:"asset_id" db:"asset_id"`
	FirstBoundAt time.Time `json:"first_bound_at" db:"first_bound_at"`
	CreatedByID  *int      `json:"created_by_id,omitempty" db:"created_by_id"`
}

type BindingFilter struct {
	EmployeeID *int
	AssetID    *int
}
