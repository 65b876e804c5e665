package assignments

import (
	"context"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const assignmentTable = "assignments"

type Repository interface {
	GetAssignment(ctx context.Context, q repository.Executor, id int) (*models.Assignment, error)
	FindActiveAssignment(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.Assignment, error)
	InsertAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error
	UpdateAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error
	ListAssignments(ctx context.Context, q repository.Executor, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type AssignmentRepository struct{}

func NewRepository() *AssignmentRepository {
	return &AssignmentRepository{}
}

var assignmentColumns = []interface{}{
	"id", "employee_id", "asset_id", "site_id", "assigned_at", "retired_at", "handed_over_by",
	"note", "is_active", "created_by_id", "created_at", "updated_at",
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, q repository.Executor, id int) (*models.Assignment, error) {
	var assignment models.Assignment
	found, err := q.From(assignmentTable).
		Select(assignmentColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &assignment)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get assignment")
	}
	if !found {
		return nil, custom_error.NewNotFoundError("assignment", id)
	}

	return &assignment, nil
}

func (r *AssignmentRepository) FindActiveAssignment(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.Assignment, error) {
	var assignment models.Assignment
	found, err := q.From(assignmentTable).
		Select(assignmentColumns...).
		Where(goqu.Ex{
			"employee_id": employeeID,
			"asset_id":    assetID,
			"is_active":   true,
		}).
		Executor().
		ScanStructContext(ctx, &assignment)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to look up active assignment")
	}
	if !found {
		return nil, nil
	}

	return &assignment, nil
}

// InsertAssignment relies on the partial unique index over active pairs; a
// violation surfaces as a ConflictError.
func (r *AssignmentRepository) InsertAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error {
	query := q.Insert(assignmentTable).
		Rows(goqu.Record{
			"employee_id":    assignment.EmployeeID,
			"asset_id":       assignment.AssetID,
			"site_id":        repository.Nullable(assignment.SiteID),
			"assigned_at":    assignment.AssignedAt,
			"retired_at":     repository.Nullable(assignment.RetiredAt),
			"handed_over_by": repository.Nullable(assignment.HandedOverBy),
			"note":           assignment.Note,
			"is_active":      assignment.Active,
			"created_by_id":  repository.Nullable(assignment.CreatedByID),
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStructContext(ctx, assignment); err != nil {
		return custom_error.FromDB(err, fmt.Sprintf("active assignment already exists for employee %d and asset %d", assignment.EmployeeID, assignment.AssetID))
	}

	return nil
}

// UpdateAssignment writes the mutable columns of assignment.
func (r *AssignmentRepository) UpdateAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error {
	query := q.Update(assignmentTable).
		Set(goqu.Record{
			"employee_id":    assignment.EmployeeID,
			"asset_id":       assignment.AssetID,
			"site_id":        repository.Nullable(assignment.SiteID),
			"assigned_at":    assignment.AssignedAt,
			"retired_at":     repository.Nullable(assignment.RetiredAt),
			"handed_over_by": repository.Nullable(assignment.HandedOverBy),
			"note":           assignment.Note,
			"is_active":      assignment.Active,
			"updated_at":     goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": assignment.ID}).
		Returning("updated_at")

	found, err := query.Executor().ScanValContext(ctx, &assignment.UpdatedAt)
	if err != nil {
		return custom_error.FromDB(err, fmt.Sprintf("active assignment already exists for employee %d and asset %d", assignment.EmployeeID, assignment.AssetID))
	}
	if !found {
		return custom_error.NewNotFoundError("assignment", assignment.ID)
	}

	return nil
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context, q repository.Executor, filter models.AssignmentFilter) ([]models.Assignment, error) {
	conditions := repository.NewQueryBuilder()
	conditions.AddOptional("employee_id", filter.EmployeeID)
	conditions.AddOptional("asset_id", filter.AssetID)
	conditions.AddOptional("is_active", filter.Active)

	var assignments []models.Assignment
	err := q.From(assignmentTable).
		Select(assignmentColumns...).
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("id").Desc()).
		Executor().
		ScanStructsContext(ctx, &assignments)
	if err != nil {
		return nil, custom_error.FromDB(err, "error executing SQL statement")
	}

	return assignments, nil
}
