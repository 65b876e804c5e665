package inventorytest

import (
	"context"
	"sort"
	"strings"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type EmployeeRepository struct {
	s *Store
}

func (r *EmployeeRepository) GetEmployee(ctx context.Context, q repository.Executor, id int) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employee, ok := r.s.data.employees[id]
	if !ok {
		return nil, custom_error.NewNotFoundError("employee", id)
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindEmployeeByKey(ctx context.Context, q repository.Executor, normalizedName string, roleID, areaID, companyID int) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var match *models.Employee
	for _, employee := range r.s.data.employees {
		if employee.NormalizedName != normalizedName || employee.RoleID != roleID ||
			employee.AreaID != areaID || employee.CompanyID != companyID {
			continue
		}
		if match == nil || employee.ID < match.ID {
			match = &employee
		}
	}
	return match, nil
}

func (r *EmployeeRepository) InsertEmployee(ctx context.Context, q repository.Executor, employee *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertEmployee"); err != nil {
		return err
	}

	now := r.s.Now()
	employee.ID = r.s.nextID("employees")
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.s.data.employees[employee.ID] = *employee
	return nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, q repository.Executor, id int, changes *models.EmployeeChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employee, ok := r.s.data.employees[id]
	if !ok {
		return custom_error.NewNotFoundError("employee", id)
	}
	if changes.Name != nil {
		employee.Name = *changes.Name
		employee.NormalizedName = metadata.NormalizeName(*changes.Name)
	}
	if changes.RoleID != nil {
		employee.RoleID = *changes.RoleID
	}
	if changes.AreaID != nil {
		employee.AreaID = *changes.AreaID
	}
	if changes.CompanyID != nil {
		employee.CompanyID = *changes.CompanyID
	}
	if changes.CityID != nil {
		employee.CityID = *changes.CityID
	}
	employee.UpdatedAt = r.s.Now()
	r.s.data.employees[id] = employee
	return nil
}

func (r *EmployeeRepository) SetEmployeeActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employee, ok := r.s.data.employees[id]
	if !ok {
		return custom_error.NewNotFoundError("employee", id)
	}
	employee.Active = active
	employee.UpdatedAt = r.s.Now()
	r.s.data.employees[id] = employee
	return nil
}

func (r *EmployeeRepository) ListEmployees(ctx context.Context, q repository.Executor, filter models.EmployeeFilter) ([]models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	name := metadata.NormalizeName(filter.Name)
	var employees []models.Employee
	for _, employee := range r.s.data.employees {
		if !filter.IncludeInactive && !employee.Active {
			continue
		}
		if name != "" && !strings.Contains(employee.NormalizedName, name) {
			continue
		}
		if filter.CompanyID != nil && employee.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.AreaID != nil && employee.AreaID != *filter.AreaID {
			continue
		}
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// SeedEmployee stores an active employee built from the given catalog entries.
func (s *Store) SeedEmployee(name string, role, area, company, city models.CatalogEntry) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	employee := models.Employee{
		ID:             s.nextID("employees"),
		Name:           metadata.CleanName(name),
		NormalizedName: metadata.NormalizeName(name),
		RoleID:         role.ID,
		AreaID:         area.ID,
		CompanyID:      company.ID,
		CityID:         city.ID,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.data.employees[employee.ID] = employee
	return employee
}

// AllEmployees returns every stored employee ordered by id.
func (s *Store) AllEmployees() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees := make([]models.Employee, 0, len(s.data.employees))
	for _, employee := range s.data.employees {
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees
}
