package models

import (
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
)

type CatalogEntry struct {
	ID             int                  `json:"id" db:"id"`
	Kind           metadata.CatalogKind `json:"kind" db:"kind"`
	Name           string               `json:"name" db:"name"`
	NormalizedName string               `json:"-" db:"normalized_name"`
	Active         bool                 `json:"is_active" db:"is_active"`
	CreatedByID    *int                 `json:"created_by_id,omitempty" db:"created_by_id"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}

type CatalogEntryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CatalogRef points at a catalog entry either by id or by name. Names are resolved
// through the catalog, creating the entry when it does not exist yet.
type CatalogRef struct {
	ID   *int   `json:"id,omitempty" binding:"omitempty,gt=0"`
	Name string `json:"name,omitempty" binding:"max=100"`
}

func (r CatalogRef) IsZero() bool {
	return r.ID == nil && metadata.CleanName(r.Name) == ""
}
