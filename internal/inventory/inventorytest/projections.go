package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type ProjectionRepository struct {
	s *Store
}

func (r *ProjectionRepository) ListProjections(ctx context.Context, q repository.Executor, filter models.ProjectionFilter) ([]models.AssignmentProjection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []models.AssignmentProjection
	for _, assignment := range r.s.data.assignments {
		employee := r.s.data.employees[assignment.EmployeeID]
		asset := r.s.data.assets[assignment.AssetID]

		if filter.Active != nil && assignment.Active != *filter.Active {
			continue
		}
		if filter.CompanyID != nil && employee.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.CityID != nil && employee.CityID != *filter.CityID {
			continue
		}

		row := models.AssignmentProjection{
			AssignmentID:  assignment.ID,
			EmployeeName:  employee.Name,
			Role:          r.s.catalogName(employee.RoleID),
			Area:          r.s.catalogName(employee.AreaID),
			Company:       r.s.catalogName(employee.CompanyID),
			City:          r.s.catalogName(employee.CityID),
			EquipmentType: r.s.catalogName(asset.EquipmentTypeID),
			Brand:         asset.Brand,
			Reference:     asset.Reference,
			RAM:           asset.RAM,
			Storage:       asset.Storage,
			Serial:        asset.Serial,
			AssignedAt:    assignment.AssignedAt,
			RetiredAt:     assignment.RetiredAt,
			HandedOverBy:  assignment.HandedOverBy,
			Note:          assignment.Note,
			Active:        assignment.Active,
		}
		if assignment.SiteID != nil {
			row.Site = ptr(r.s.catalogName(*assignment.SiteID))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AssignmentID < rows[j].AssignmentID })
	return rows, nil
}
