package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const auditTable = "audit_entries"

type AuditLogRepository struct{}

func NewRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) InsertEntry(ctx context.Context, q repository.Executor, entry *models.AuditEntry) error {
	data := entry.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry data: %w", err)
	}

	query := q.Insert(auditTable).
		Rows(goqu.Record{
			"assignment_id": repository.Nullable(entry.AssignmentID),
			"employee_id":   entry.EmployeeID,
			"asset_id":      entry.AssetID,
			"action":        string(entry.Action),
			"occurred_at":   entry.OccurredAt,
			"note":          entry.Note,
			"actor_id":      entry.ActorID,
			"data":          string(dataJSON),
		}).
		Returning("id")

	if _, err := query.Executor().ScanValContext(ctx, &entry.ID); err != nil {
		return custom_error.FromDB(err, "failed to insert audit entry")
	}
	entry.DataRaw = dataJSON

	return nil
}

func (r *AuditLogRepository) AttachAssignment(ctx context.Context, q repository.Executor, entryID int, assignmentID int) error {
	result, err := q.Update(auditTable).
		Set(goqu.Record{"assignment_id": assignmentID}).
		Where(goqu.Ex{
			"id":            entryID,
			"assignment_id": nil,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update audit entry")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("audit entry %d is missing or already attached", entryID)
	}

	return nil
}

func (r *AuditLogRepository) ListEntries(ctx context.Context, q repository.Executor, filter models.AuditFilter) ([]models.AuditEntry, error) {
	conditions := repository.NewQueryBuilder()
	conditions.AddOptional("assignment_id", filter.AssignmentID)
	conditions.AddOptional("employee_id", filter.EmployeeID)
	conditions.AddOptional("asset_id", filter.AssetID)

	query := q.From(goqu.T(auditTable).As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.assignment_id").As("assignment_id"),
			goqu.I("a.employee_id").As("employee_id"),
			goqu.I("a.asset_id").As("asset_id"),
			goqu.I("a.action").As("action"),
			goqu.I("a.occurred_at").As("occurred_at"),
			goqu.I("a.note").As("note"),
			goqu.I("a.actor_id").As("actor_id"),
			goqu.I("a.data").As("data"),
		).
		Where(conditions.BuildConditions(map[string]string{
			"assignment_id": "a.assignment_id",
			"employee_id":   "a.employee_id",
			"asset_id":      "a.asset_id",
		})).
		Order(goqu.I("a.occurred_at").Desc(), goqu.I("a.id").Asc())

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []models.AuditEntry
	if err := query.Executor().ScanStructsContext(ctx, &entries); err != nil {
		return nil, custom_error.FromDB(err, "error executing SQL statement")
	}

	for i := range entries {
		entries[i].LoadFromDB()
	}

	return entries, nil
}
