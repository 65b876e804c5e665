package employees

import (
	"context"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const employeeTable = "employees"

type Repository interface {
	GetEmployee(ctx context.Context, q repository.Executor, id int) (*models.Employee, error)
	FindEmployeeByKey(ctx context.Context, q repository.Executor, normalizedName string, roleID, areaID, companyID int) (*models.Employee, error)
	InsertEmployee(ctx context.Context, q repository.Executor, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, q repository.Executor, id int, changes *models.EmployeeChanges) error
	SetEmployeeActive(ctx context.Context, q repository.Executor, id int, active bool) error
	ListEmployees(ctx context.Context, q repository.Executor, filter models.EmployeeFilter) ([]models.Employee, error)
}

type EmployeeRepository struct{}

func NewRepository() *EmployeeRepository {
	return &EmployeeRepository{}
}

var employeeColumns = []interface{}{
	"id", "name", "normalized_name", "role_id", "area_id", "company_id", "city_id",
	"is_active", "created_by_id", "created_at", "updated_at",
}

func (r *EmployeeRepository) GetEmployee(ctx context.Context, q repository.Executor, id int) (*models.Employee, error) {
	var employee models.Employee
	found, err := q.From(employeeTable).
		Select(employeeColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &employee)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get employee")
	}
	if !found {
		return nil, custom_error.NewNotFoundError("employee", id)
	}

	return &employee, nil
}

// FindEmployeeByKey matches the soft natural key used by imports. The oldest row
// wins when several employees share it.
func (r *EmployeeRepository) FindEmployeeByKey(ctx context.Context, q repository.Executor, normalizedName string, roleID, areaID, companyID int) (*models.Employee, error) {
	var employee models.Employee
	found, err := q.From(employeeTable).
		Select(employeeColumns...).
		Where(goqu.Ex{
			"normalized_name": normalizedName,
			"role_id":         roleID,
			"area_id":         areaID,
			"company_id":      companyID,
		}).
		Order(goqu.I("id").Asc()).
		Limit(1).
		Executor().
		ScanStructContext(ctx, &employee)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to look up employee")
	}
	if !found {
		return nil, nil
	}

	return &employee, nil
}

func (r *EmployeeRepository) InsertEmployee(ctx context.Context, q repository.Executor, employee *models.Employee) error {
	query := q.Insert(employeeTable).
		Rows(goqu.Record{
			"name":            employee.Name,
			"normalized_name": employee.NormalizedName,
			"role_id":         employee.RoleID,
			"area_id":         employee.AreaID,
			"company_id":      employee.CompanyID,
			"city_id":         employee.CityID,
			"is_active":       employee.Active,
			"created_by_id":   repository.Nullable(employee.CreatedByID),
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStructContext(ctx, employee); err != nil {
		return custom_error.FromDB(err, "failed to insert employee")
	}

	return nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, q repository.Executor, id int, changes *models.EmployeeChanges) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.Name != nil {
		record["name"] = *changes.Name
		record["normalized_name"] = metadata.NormalizeName(*changes.Name)
	}
	if changes.RoleID != nil {
		record["role_id"] = *changes.RoleID
	}
	if changes.AreaID != nil {
		record["area_id"] = *changes.AreaID
	}
	if changes.CompanyID != nil {
		record["company_id"] = *changes.CompanyID
	}
	if changes.CityID != nil {
		record["city_id"] = *changes.CityID
	}

	result, err := q.Update(employeeTable).
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update employee")
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *EmployeeRepository) SetEmployeeActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	result, err := q.Update(employeeTable).
		Set(goqu.Record{
			"is_active":  active,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update employee")
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *EmployeeRepository) ListEmployees(ctx context.Context, q repository.Executor, filter models.EmployeeFilter) ([]models.Employee, error) {
	conditions := repository.NewQueryBuilder()
	if !filter.IncludeInactive {
		conditions.AddCondition("is_active", true)
	}
	conditions.AddOptional("company_id", filter.CompanyID)
	conditions.AddOptional("area_id", filter.AreaID)

	query := q.From(employeeTable).
		Select(employeeColumns...).
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc())

	if name := metadata.NormalizeName(filter.Name); name != "" {
		query = query.Where(goqu.C("normalized_name").Like("%" + name + "%"))
	}

	var employees []models.Employee
	if err := query.Executor().ScanStructsContext(ctx, &employees); err != nil {
		return nil, custom_error.FromDB(err, "error executing SQL statement")
	}

	return employees, nil
}

func expectOneRow(rowsAffected func() (int64, error), id int) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return custom_error.NewNotFoundError("employee", id)
	}
	return nil
}
