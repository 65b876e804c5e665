package models

import (
	"encoding/json"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
)

type AuditEntry struct {
	ID           int                    `json:"id" db:"id"`
	AssignmentID *int                   `json:"assignment_id" db:"assignment_id"`
	EmployeeID   int                    `json:"employee_id" db:"employee_id"`
	AssetID      int                    `json:"asset_id" db:"asset_id"`
	Action       metadata.Action        `json:"action" db:"action"`
	OccurredAt   time.Time              `json:"occurred_at" db:"occurred_at"`
	Note         string                 `json:"note" db:"note"`
	ActorID      int                    `json:"actor_id" db:"actor_id"`
	DataRaw      []byte                 `json:"-" db:"data"` // JSON as bytes
	Data         map[string]interface{} `json:"data,omitempty" db:"-"`
}

func (a *AuditEntry) LoadFromDB() {
	if len(a.DataRaw) > 0 {
		_ = json.Unmarshal(a.DataRaw, &a.Data)
	}
}

type AuditFilter struct {
	AssignmentID *int
	EmployeeID   *int
	AssetID      *int
	Limit        uint
}
