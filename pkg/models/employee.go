package models

import "time"

type Employee struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	NormalizedName string    `json:"-" db:"normalized_name"`
	RoleID         int       `json:"role_id" db:"role_id"`
	AreaID         int       `json:"area_id" db:"area_id"`
	CompanyID      int       `json:"company_id" db:"company_id"`
	CityID         int       `json:"city_id" db:"city_id"`
	Active         bool      `json:"is_active" db:"is_active"`
	CreatedByID    *int      `json:"created_by_id,omitempty" db:"created_by_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type CreateEmployeeRequest struct {
	Name    string     `json:"name" binding:"required,min=2,max=100"`
	Role    CatalogRef `json:"role"`
	Area    CatalogRef `json:"area"`
	Company CatalogRef `json:"company"`
	City    CatalogRef `json:"city"`
}

type UpdateEmployeeRequest struct {
	Name    *string     `json:"name" binding:"omitempty,min=2,max=100"`
	Role    *CatalogRef `json:"role"`
	Area    *CatalogRef `json:"area"`
	Company *CatalogRef `json:"company"`
	City    *CatalogRef `json:"city"`
}

// EmployeeChanges is the whitelist of columns an update may touch.
type EmployeeChanges struct {
	Name      *string
	RoleID    *int
	AreaID    *int
	CompanyID *int
	CityID    *int
}

func (c *EmployeeChanges) HasChanges() bool {
	return c.Name != nil || c.RoleID != nil || c.AreaID != nil || c.CompanyID != nil || c.CityID != nil
}

type EmployeeFilter struct {
	Name            string
	CompanyID       *int
	AreaID          *int
	IncludeInactive bool
}
