package models

import "time"

type CreateAssignmentRequest struct {
	EmployeeID   int        `json:"employee_id" binding:"required,gt=0"`
	AssetID      int        `json:"asset_id" binding:"required,gt=0"`
	SiteID       *int       `json:"site_id" binding:"omitempty,gt=0"`
	AssignedAt   *time.Time `json:"assigned_at"`
	HandedOverBy *string    `json:"handed_over_by" binding:"omitempty,max=100"`
	Note         string     `json:"note" binding:"max=500"`
}

type RetireAssignmentRequest struct {
	RetiredAt *time.Time `json:"retired_at"`
	Note      string     `json:"note" binding:"max=500"`
}

type ReactivateAssignmentRequest struct {
	Note string `json:"note" binding:"max=500"`
}
