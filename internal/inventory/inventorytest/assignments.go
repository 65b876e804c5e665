package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type AssignmentRepository struct {
	s *Store
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, q repository.Executor, id int) (*models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	assignment, ok := r.s.data.assignments[id]
	if !ok {
		return nil, custom_error.NewNotFoundError("assignment", id)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) FindActiveAssignment(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing := r.s.activeAssignment(0, employeeID, assetID); existing != nil {
		return existing, nil
	}
	return nil, nil
}

func (r *AssignmentRepository) InsertAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertAssignment"); err != nil {
		return err
	}
	if assignment.Active {
		if existing := r.s.activeAssignment(0, assignment.EmployeeID, assignment.AssetID); existing != nil {
			return custom_error.NewConflictError("assignment", 0, "active assignment already exists for employee %d and asset %d", assignment.EmployeeID, assignment.AssetID)
		}
	}

	now := r.s.Now()
	assignment.ID = r.s.nextID("assignments")
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	r.s.data.assignments[assignment.ID] = *assignment
	return nil
}

func (r *AssignmentRepository) UpdateAssignment(ctx context.Context, q repository.Executor, assignment *models.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdateAssignment"); err != nil {
		return err
	}

	current, ok := r.s.data.assignments[assignment.ID]
	if !ok {
		return custom_error.NewNotFoundError("assignment", assignment.ID)
	}
	if assignment.Active {
		if existing := r.s.activeAssignment(assignment.ID, assignment.EmployeeID, assignment.AssetID); existing != nil {
			return custom_error.NewConflictError("assignment", 0, "active assignment already exists for employee %d and asset %d", assignment.EmployeeID, assignment.AssetID)
		}
	}

	current.EmployeeID = assignment.EmployeeID
	current.AssetID = assignment.AssetID
	current.SiteID = assignment.SiteID
	current.AssignedAt = assignment.AssignedAt
	current.RetiredAt = assignment.RetiredAt
	current.HandedOverBy = assignment.HandedOverBy
	current.Note = assignment.Note
	current.Active = assignment.Active
	current.UpdatedAt = r.s.Now()
	r.s.data.assignments[assignment.ID] = current
	assignment.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context, q repository.Executor, filter models.AssignmentFilter) ([]models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var assignments []models.Assignment
	for _, assignment := range r.s.data.assignments {
		if filter.EmployeeID != nil && assignment.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.AssetID != nil && assignment.AssetID != *filter.AssetID {
			continue
		}
		if filter.Active != nil && assignment.Active != *filter.Active {
			continue
		}
		assignments = append(assignments, assignment)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID > assignments[j].ID })
	return assignments, nil
}

// activeAssignment must be called with mu held. excludeID skips the row being updated.
func (s *Store) activeAssignment(excludeID, employeeID, assetID int) *models.Assignment {
	for _, assignment := range s.data.assignments {
		if assignment.ID != excludeID && assignment.Active &&
			assignment.EmployeeID == employeeID && assignment.AssetID == assetID {
			return &assignment
		}
	}
	return nil
}

// AllAssignments returns every stored assignment ordered by id.
func (s *Store) AllAssignments() []models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments := make([]models.Assignment, 0, len(s.data.assignments))
	for _, assignment := range s.data.assignments {
		assignments = append(assignments, assignment)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments
}
