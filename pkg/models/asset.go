package models

import "time"

type Asset struct {
	ID                  int       `json:"id" db:"id"`
	Brand               string    `json:"brand" db:"brand"`
	NormalizedBrand     string    `json:"-" db:"normalized_brand"`
	Reference           string    `json:"reference" db:"reference"`
	NormalizedReference string    `json:"-" db:"normalized_reference"`
	RAM                 string    `json:"ram" db:"ram"`
	Storage             string    `json:"storage" db:"storage"`
	Serial              *string   `json:"serial" db:"serial"`
	Notes               string    `json:"notes" db:"notes"`
	EquipmentTypeID     int       `json:"equipment_type_id" db:"equipment_type_id"`
	Active              bool      `json:"is_active" db:"is_active"`
	CreatedByID         *int      `json:"created_by_id,omitempty" db:"created_by_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

func (a *Asset) SerialValue() string {
	if a.Serial == nil {
		return ""
	}
	return *a.Serial
}

// AssetChanges is the whitelist of columns an update may touch.
type AssetChanges struct {
	Brand           *string
	Reference       *string
	RAM             *string
	Storage         *string
	Serial          *string
	Notes           *string
	EquipmentTypeID *int
}

func (c *AssetChanges) HasChanges() bool {
	return c.Brand != nil || c.Reference != nil || c.RAM != nil || c.Storage != nil ||
		c.Serial != nil || c.Notes != nil || c.EquipmentTypeID != nil
}

type AssetFilter struct {
	Serial          string
	EquipmentTypeID *int
	IncludeInactive bool
}
