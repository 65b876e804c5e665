package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

type Repository interface {
	InsertEntry(ctx context.Context, q repository.Executor, entry *models.AuditEntry) error
	AttachAssignment(ctx context.Context, q repository.Executor, entryID int, assignmentID int) error
	ListEntries(ctx context.Context, q repository.Executor, filter models.AuditFilter) ([]models.AuditEntry, error)
}

type Auditable interface {
	CreateLogView() models.AuditEntry
}

// Auditlog is the append-only writer for assignment history. Entries are written
// with the caller's transaction and are never updated, apart from the single
// assignment backfill done by AttachAssignment.
type Auditlog struct {
	r      Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewAuditLog(r Repository, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: r, logger: logger, now: time.Now}
}

// WithClock replaces the time source, used by tests that assert ordering.
func (a *Auditlog) WithClock(now func() time.Time) *Auditlog {
	a.now = now
	return a
}

func (a *Auditlog) Append(
	ctx context.Context,
	tx repository.Executor,
	action metadata.Action,
	note string,
	data map[string]interface{},
	item Auditable,
	actor models.Actor,
) (*models.AuditEntry, error) {
	if _, err := metadata.NewAction(string(action)); err != nil {
		return nil, custom_error.NewValidationError("action", "%s", err.Error())
	}
	if actor.ID == 0 {
		return nil, custom_error.NewValidationError("actor", "audit entries must be attributed to an actor")
	}

	entry := item.CreateLogView()
	entry.Action = action
	entry.Note = note
	entry.ActorID = actor.ID
	entry.OccurredAt = a.now()
	entry.Data = data

	if err := a.r.InsertEntry(ctx, tx, &entry); err != nil {
		a.logger.Error("Unable to create audit entry",
			zap.String("action", string(action)),
			zap.Int("employee_id", entry.EmployeeID),
			zap.Int("asset_id", entry.AssetID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}

	a.logger.Debug("Created audit entry",
		zap.Int("id", entry.ID),
		zap.String("action", string(action)),
	)

	return &entry, nil
}

// AttachAssignment backfills the assignment reference of an entry appended before the
// assignment id was known. It must run in the transaction that inserted the assignment.
func (a *Auditlog) AttachAssignment(ctx context.Context, tx repository.Executor, entry *models.AuditEntry, assignmentID int) error {
	if entry.AssignmentID != nil {
		return fmt.Errorf("audit entry %d already references assignment %d", entry.ID, *entry.AssignmentID)
	}

	if err := a.r.AttachAssignment(ctx, tx, entry.ID, assignmentID); err != nil {
		return fmt.Errorf("failed to attach assignment to audit entry: %w", err)
	}
	entry.AssignmentID = &assignmentID

	return nil
}

// List returns entries newest first; entries with the same timestamp keep insertion order.
func (a *Auditlog) List(ctx context.Context, q repository.Executor, filter models.AuditFilter) ([]models.AuditEntry, error) {
	return a.r.ListEntries(ctx, q, filter)
}
