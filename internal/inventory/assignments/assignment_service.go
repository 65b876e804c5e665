package assignments

import (
	"context"
	"strings"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/metrics"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/auditlog"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

type EmployeeReader interface {
	GetEmployee(ctx context.Context, q repository.Executor, id int) (*models.Employee, error)
}

type AssetReader interface {
	GetAsset(ctx context.Context, q repository.Executor, id int) (*models.Asset, error)
}

// CatalogResolver checks that a site reference names an active city.
type CatalogResolver interface {
	ResolveRefTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, ref models.CatalogRef, actor models.Actor) (*models.CatalogEntry, error)
}

type Binder interface {
	EnsureBinding(ctx context.Context, tx repository.Executor, employee *models.Employee, asset *models.Asset, actor models.Actor) (*models.AssetBinding, error)
}

// AssignmentService drives assignments between the active and retired states.
// Every transition runs in one transaction together with exactly one audit entry.
type AssignmentService struct {
	store     repository.Transactor
	repo      Repository
	employees EmployeeReader
	assets    AssetReader
	binder    Binder
	catalog   CatalogResolver
	audit     *auditlog.Auditlog
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	store repository.Transactor,
	repo Repository,
	employees EmployeeReader,
	assets AssetReader,
	binder Binder,
	catalog CatalogResolver,
	audit *auditlog.Auditlog,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		store:     store,
		repo:      repo,
		employees: employees,
		assets:    assets,
		binder:    binder,
		catalog:   catalog,
		audit:     audit,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AssignmentService) Create(ctx context.Context, req models.CreateAssignmentRequest, actor models.Actor) (*models.Assignment, error) {
	var assignment *models.Assignment
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		var err error
		assignment, err = s.CreateTx(ctx, tx, req, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.committed(metadata.ActionAssigned, assignment)
	return assignment, nil
}

// CreateTx opens an assignment inside the caller's transaction. The site defaults
// to the employee's city and assigned_at to the current time.
func (s *AssignmentService) CreateTx(ctx context.Context, tx repository.Executor, req models.CreateAssignmentRequest, actor models.Actor) (*models.Assignment, error) {
	if actor.ID == 0 {
		return nil, custom_error.NewValidationError("actor", "assignments must be attributed to an actor")
	}

	employee, asset, err := s.loadActivePair(ctx, tx, req.EmployeeID, req.AssetID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, tx, 0, employee.ID, asset.ID); err != nil {
		return nil, err
	}

	siteID := employee.CityID
	if req.SiteID != nil {
		site, err := s.resolveSite(ctx, tx, *req.SiteID, actor)
		if err != nil {
			return nil, err
		}
		siteID = site.ID
	}

	assignment := &models.Assignment{
		EmployeeID:   employee.ID,
		AssetID:      asset.ID,
		SiteID:       &siteID,
		AssignedAt:   s.now(),
		HandedOverBy: cleanOptional(req.HandedOverBy),
		Note:         strings.TrimSpace(req.Note),
		Active:       true,
		CreatedByID:  actor.CreatedBy(),
	}
	if req.AssignedAt != nil {
		assignment.AssignedAt = *req.AssignedAt
	}

	entry, err := s.audit.Append(ctx, tx, metadata.ActionAssigned, assignment.Note, map[string]interface{}{
		"site_id":        *assignment.SiteID,
		"assigned_at":    assignment.AssignedAt,
		"handed_over_by": assignment.HandedOverBy,
	}, assignment, actor)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertAssignment(ctx, tx, assignment); err != nil {
		return nil, err
	}
	if _, err := s.binder.EnsureBinding(ctx, tx, employee, asset, actor); err != nil {
		return nil, err
	}
	if err := s.audit.AttachAssignment(ctx, tx, entry, assignment.ID); err != nil {
		return nil, err
	}

	return assignment, nil
}

// Retire closes an active assignment. The binding between employee and asset
// is kept.
func (s *AssignmentService) Retire(ctx context.Context, id int, req models.RetireAssignmentRequest, actor models.Actor) (*models.Assignment, error) {
	var assignment *models.Assignment
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Active {
			return custom_error.NewValidationError("assignment", "assignment %d is already retired", id)
		}

		retiredAt := s.now()
		if req.RetiredAt != nil {
			retiredAt = *req.RetiredAt
		}
		if retiredAt.Before(current.AssignedAt) {
			return custom_error.NewValidationError("retired_at", "must not precede assigned_at")
		}

		current.Active = false
		current.RetiredAt = &retiredAt
		if err := s.repo.UpdateAssignment(ctx, tx, current); err != nil {
			return err
		}

		note := strings.TrimSpace(req.Note)
		if _, err := s.audit.Append(ctx, tx, metadata.ActionRetired, note, map[string]interface{}{
			"retired_at": retiredAt,
		}, current, actor); err != nil {
			return err
		}

		assignment = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(metadata.ActionRetired, assignment)
	return assignment, nil
}

// Update applies the whitelisted changes to an active assignment. Changing the
// employee or the asset is a reassignment and keeps the assignment id. An update
// without effective changes writes nothing.
func (s *AssignmentService) Update(ctx context.Context, id int, changes models.AssignmentChanges, actor models.Actor) (*models.Assignment, error) {
	var (
		assignment *models.Assignment
		action     metadata.Action
	)
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Active {
			return custom_error.NewValidationError("assignment", "assignment %d is retired and cannot be updated", id)
		}

		diff := map[string]interface{}{}
		next := *current

		if changes.EmployeeID != nil && *changes.EmployeeID != current.EmployeeID {
			diff["employee_id"] = change(current.EmployeeID, *changes.EmployeeID)
			next.EmployeeID = *changes.EmployeeID
		}
		if changes.AssetID != nil && *changes.AssetID != current.AssetID {
			diff["asset_id"] = change(current.AssetID, *changes.AssetID)
			next.AssetID = *changes.AssetID
		}
		if changes.SiteID != nil && (current.SiteID == nil || *changes.SiteID != *current.SiteID) {
			site, err := s.resolveSite(ctx, tx, *changes.SiteID, actor)
			if err != nil {
				return err
			}
			diff["site_id"] = change(current.SiteID, site.ID)
			next.SiteID = &site.ID
		}
		if changes.HandedOverBy != nil {
			handedOverBy := cleanOptional(changes.HandedOverBy)
			if !equalOptional(handedOverBy, current.HandedOverBy) {
				diff["handed_over_by"] = change(current.HandedOverBy, handedOverBy)
				next.HandedOverBy = handedOverBy
			}
		}
		if changes.Note != nil {
			if note := strings.TrimSpace(*changes.Note); note != current.Note {
				diff["note"] = change(current.Note, note)
				next.Note = note
			}
		}
		if changes.AssignedAt != nil && !changes.AssignedAt.Equal(current.AssignedAt) {
			diff["assigned_at"] = change(current.AssignedAt, *changes.AssignedAt)
			next.AssignedAt = *changes.AssignedAt
		}

		if len(diff) == 0 {
			assignment = current
			return nil
		}

		action = metadata.ActionUpdated
		_, employeeChanged := diff["employee_id"]
		_, assetChanged := diff["asset_id"]
		if employeeChanged || assetChanged {
			action = metadata.ActionReassigned
			employee, asset, err := s.loadActivePair(ctx, tx, next.EmployeeID, next.AssetID)
			if err != nil {
				return err
			}
			if err := s.ensureSlotFree(ctx, tx, id, next.EmployeeID, next.AssetID); err != nil {
				return err
			}
			if err := s.repo.UpdateAssignment(ctx, tx, &next); err != nil {
				return err
			}
			if _, err := s.binder.EnsureBinding(ctx, tx, employee, asset, actor); err != nil {
				return err
			}
		} else if err := s.repo.UpdateAssignment(ctx, tx, &next); err != nil {
			return err
		}

		if _, err := s.audit.Append(ctx, tx, action, next.Note, diff, &next, actor); err != nil {
			return err
		}

		assignment = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action != "" {
		s.committed(action, assignment)
	}
	return assignment, nil
}

// Reactivate reopens a retired assignment under the same id.
func (s *AssignmentService) Reactivate(ctx context.Context, id int, req models.ReactivateAssignmentRequest, actor models.Actor) (*models.Assignment, error) {
	var assignment *models.Assignment
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Active {
			return custom_error.NewValidationError("assignment", "assignment %d is already active", id)
		}

		employee, asset, err := s.loadActivePair(ctx, tx, current.EmployeeID, current.AssetID)
		if err != nil {
			return err
		}
		if err := s.ensureSlotFree(ctx, tx, id, current.EmployeeID, current.AssetID); err != nil {
			return err
		}

		previousRetiredAt := current.RetiredAt
		current.Active = true
		current.RetiredAt = nil
		if err := s.repo.UpdateAssignment(ctx, tx, current); err != nil {
			return err
		}
		if _, err := s.binder.EnsureBinding(ctx, tx, employee, asset, actor); err != nil {
			return err
		}

		note := "assignment reactivated"
		if extra := strings.TrimSpace(req.Note); extra != "" {
			note = note + ": " + extra
		}
		if _, err := s.audit.Append(ctx, tx, metadata.ActionAssigned, note, map[string]interface{}{
			"reactivated":        true,
			"previous_retired_at": previousRetiredAt,
		}, current, actor); err != nil {
			return err
		}

		assignment = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(metadata.ActionAssigned, assignment)
	return assignment, nil
}

func (s *AssignmentService) Get(ctx context.Context, id int) (*models.Assignment, error) {
	return s.repo.GetAssignment(ctx, s.store.Executor(), id)
}

func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	return s.repo.ListAssignments(ctx, s.store.Executor(), filter)
}

// History lists the audit entries of one assignment, newest first.
func (s *AssignmentService) History(ctx context.Context, id int) ([]models.AuditEntry, error) {
	if _, err := s.repo.GetAssignment(ctx, s.store.Executor(), id); err != nil {
		return nil, err
	}
	return s.audit.List(ctx, s.store.Executor(), models.AuditFilter{AssignmentID: &id})
}

func (s *AssignmentService) AuditTrail(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	return s.audit.List(ctx, s.store.Executor(), filter)
}

func (s *AssignmentService) loadActivePair(ctx context.Context, tx repository.Executor, employeeID, assetID int) (*models.Employee, *models.Asset, error) {
	employee, err := s.employees.GetEmployee(ctx, tx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if !employee.Active {
		return nil, nil, custom_error.NewValidationError("employee_id", "employee %d is inactive", employeeID)
	}

	asset, err := s.assets.GetAsset(ctx, tx, assetID)
	if err != nil {
		return nil, nil, err
	}
	if !asset.Active {
		return nil, nil, custom_error.NewValidationError("asset_id", "asset %d is inactive", assetID)
	}

	return employee, asset, nil
}

// resolveSite accepts only an existing, active city entry as a site.
func (s *AssignmentService) resolveSite(ctx context.Context, tx repository.Executor, siteID int, actor models.Actor) (*models.CatalogEntry, error) {
	return s.catalog.ResolveRefTx(ctx, tx, metadata.KindCity, models.CatalogRef{ID: &siteID}, actor)
}

// ensureSlotFree fails when another active assignment holds the pair.
func (s *AssignmentService) ensureSlotFree(ctx context.Context, tx repository.Executor, selfID, employeeID, assetID int) error {
	existing, err := s.repo.FindActiveAssignment(ctx, tx, employeeID, assetID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return custom_error.NewConflictError("assignment", existing.ID,
			"employee %d already holds asset %d", employeeID, assetID)
	}
	return nil
}

func (s *AssignmentService) committed(action metadata.Action, assignment *models.Assignment) {
	s.metrics.RecordTransition(string(action))
	s.logger.Info("Assignment transition committed",
		zap.String("action", string(action)),
		zap.Int("assignment_id", assignment.ID),
		zap.Int("employee_id", assignment.EmployeeID),
		zap.Int("asset_id", assignment.AssetID),
	)
}

func change(from, to interface{}) map[string]interface{} {
	return map[string]interface{}{"from": from, "to": to}
}

func cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
