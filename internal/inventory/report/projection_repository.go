package report

import (
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Repository interface {
	ListProjections(ctx context.Context, q repository.Executor, filter models.ProjectionFilter) ([]models.AssignmentProjection, error)
}

type ProjectionRepository struct{}

func NewRepository() *ProjectionRepository {
	return &ProjectionRepository{}
}

// ListProjections flattens assignments with their employee, asset and catalog
// names, ordered by assignment id.
func (r *ProjectionRepository) ListProjections(ctx context.Context, q repository.Executor, filter models.ProjectionFilter) ([]models.AssignmentProjection, error) {
	query := q.Select(
		goqu.I("a.id").As("assignment_id"),
		goqu.I("e.name").As("employee_name"),
		goqu.COALESCE(goqu.I("role.name"), "").As("role_name"),
		goqu.COALESCE(goqu.I("area.name"), "").As("area_name"),
		goqu.COALESCE(goqu.I("company.name"), "").As("company_name"),
		goqu.COALESCE(goqu.I("city.name"), "").As("city_name"),
		goqu.COALESCE(goqu.I("eq.name"), "").As("equipment_type_name"),
		goqu.I("s.brand"),
		goqu.I("s.reference"),
		goqu.I("s.ram"),
		goqu.I("s.storage"),
		goqu.I("s.serial"),
		goqu.I("site.name").As("site_name"),
		goqu.I("a.assigned_at"),
		goqu.I("a.retired_at"),
		goqu.I("a.handed_over_by"),
		goqu.I("a.note"),
		goqu.I("a.is_active"),
	).
		From(goqu.T("assignments").As("a")).
		InnerJoin(goqu.T("employees").As("e"), goqu.On(goqu.Ex{"a.employee_id": goqu.I("e.id")})).
		InnerJoin(goqu.T("assets").As("s"), goqu.On(goqu.Ex{"a.asset_id": goqu.I("s.id")})).
		LeftJoin(goqu.T("catalog_entries").As("role"), goqu.On(goqu.Ex{"e.role_id": goqu.I("role.id")})).
		LeftJoin(goqu.T("catalog_entries").As("area"), goqu.On(goqu.Ex{"e.area_id": goqu.I("area.id")})).
		LeftJoin(goqu.T("catalog_entries").As("company"), goqu.On(goqu.Ex{"e.company_id": goqu.I("company.id")})).
		LeftJoin(goqu.T("catalog_entries").As("city"), goqu.On(goqu.Ex{"e.city_id": goqu.I("city.id")})).
		LeftJoin(goqu.T("catalog_entries").As("eq"), goqu.On(goqu.Ex{"s.equipment_type_id": goqu.I("eq.id")})).
		LeftJoin(goqu.T("catalog_entries").As("site"), goqu.On(goqu.Ex{"a.site_id": goqu.I("site.id")}))

	conditions := repository.NewQueryBuilder()
	conditions.AddOptional("is_active", filter.Active)
	conditions.AddOptional("company_id", filter.CompanyID)
	conditions.AddOptional("city_id", filter.CityID)
	query = query.Where(conditions.BuildConditions(map[string]string{
		"is_active":  "a.is_active",
		"company_id": "e.company_id",
		"city_id":    "e.city_id",
	}))

	var rows []models.AssignmentProjection
	if err := query.Order(goqu.I("a.id").Asc()).ScanStructsContext(ctx, &rows); err != nil {
		return nil, custom_error.FromDB(err, "failed to list assignment projections")
	}

	return rows, nil
}
