package employees

import (
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

type CatalogResolver interface {
	ResolveRefTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, ref models.CatalogRef, actor models.Actor) (*models.CatalogEntry, error)
}

type BindingLister interface {
	ListForEmployee(ctx context.Context, employeeID int) ([]models.AssetBinding, error)
}

type AssetReader interface {
	GetAsset(ctx context.Context, q repository.Executor, id int) (*models.Asset, error)
}

type EmployeeService struct {
	store    repository.Transactor
	repo     Repository
	catalog  CatalogResolver
	bindings BindingLister
	assets   AssetReader
	logger   *zap.Logger
}

func NewService(store repository.Transactor, repo Repository, catalog CatalogResolver, bindings BindingLister, assets AssetReader, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store:    store,
		repo:     repo,
		catalog:  catalog,
		bindings: bindings,
		assets:   assets,
		logger:   logger,
	}
}

// Create registers an employee. Catalog references given by name are created on
// first use. An employee with the same name, role, area and company already
// present is reported as a conflict.
func (s *EmployeeService) Create(ctx context.Context, req models.CreateEmployeeRequest, actor models.Actor) (*models.Employee, error) {
	name := metadata.CleanName(req.Name)
	if name == "" {
		return nil, custom_error.NewValidationError("name", "must not be empty")
	}
	refs := map[metadata.CatalogKind]models.CatalogRef{
		metadata.KindRole:    req.Role,
		metadata.KindArea:    req.Area,
		metadata.KindCompany: req.Company,
		metadata.KindCity:    req.City,
	}
	for kind, ref := range refs {
		if ref.IsZero() {
			return nil, custom_error.NewValidationError(string(kind), "is required")
		}
	}

	var employee *models.Employee
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		resolved := make(map[metadata.CatalogKind]int, len(refs))
		for _, kind := range []metadata.CatalogKind{metadata.KindRole, metadata.KindArea, metadata.KindCompany, metadata.KindCity} {
			entry, err := s.catalog.ResolveRefTx(ctx, tx, kind, refs[kind], actor)
			if err != nil {
				return err
			}
			resolved[kind] = entry.ID
		}

		normalized := metadata.NormalizeName(name)
		existing, err := s.repo.FindEmployeeByKey(ctx, tx, normalized, resolved[metadata.KindRole], resolved[metadata.KindArea], resolved[metadata.KindCompany])
		if err != nil {
			return err
		}
		if existing != nil {
			return custom_error.NewConflictError("employee", existing.ID, "employee %q already exists with this role, area and company", existing.Name)
		}

		employee = &models.Employee{
			Name:           name,
			NormalizedName: normalized,
			RoleID:         resolved[metadata.KindRole],
			AreaID:         resolved[metadata.KindArea],
			CompanyID:      resolved[metadata.KindCompany],
			CityID:         resolved[metadata.KindCity],
			Active:         true,
			CreatedByID:    actor.CreatedBy(),
		}
		return s.repo.InsertEmployee(ctx, tx, employee)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Employee created", zap.Int("id", employee.ID), zap.String("name", employee.Name))
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int) (*models.Employee, error) {
	return s.repo.GetEmployee(ctx, s.store.Executor(), id)
}

func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	return s.repo.ListEmployees(ctx, s.store.Executor(), filter)
}

// Update applies the whitelisted changes in req. A request without effective
// changes returns the employee untouched.
func (s *EmployeeService) Update(ctx context.Context, id int, req models.UpdateEmployeeRequest, actor models.Actor) (*models.Employee, error) {
	var employee *models.Employee
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetEmployee(ctx, tx, id)
		if err != nil {
			return err
		}

		changes := &models.EmployeeChanges{}
		if req.Name != nil {
			name := metadata.CleanName(*req.Name)
			if name == "" {
				return custom_error.NewValidationError("name", "must not be empty")
			}
			if name != current.Name {
				changes.Name = &name
			}
		}

		refs := []struct {
			kind    metadata.CatalogKind
			ref     *models.CatalogRef
			current int
			target  **int
		}{
			{metadata.KindRole, req.Role, current.RoleID, &changes.RoleID},
			{metadata.KindArea, req.Area, current.AreaID, &changes.AreaID},
			{metadata.KindCompany, req.Company, current.CompanyID, &changes.CompanyID},
			{metadata.KindCity, req.City, current.CityID, &changes.CityID},
		}
		for _, r := range refs {
			if r.ref == nil || r.ref.IsZero() {
				continue
			}
			entry, err := s.catalog.ResolveRefTx(ctx, tx, r.kind, *r.ref, actor)
			if err != nil {
				return err
			}
			if entry.ID != r.current {
				entryID := entry.ID
				*r.target = &entryID
			}
		}

		if !changes.HasChanges() {
			employee = current
			return nil
		}
		if err := s.repo.UpdateEmployee(ctx, tx, id, changes); err != nil {
			return err
		}

		employee, err = s.repo.GetEmployee(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return employee, nil
}

// Deactivate soft deletes the employee. Existing assignments are left as they are.
func (s *EmployeeService) Deactivate(ctx context.Context, id int) error {
	return s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetEmployee(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Active {
			return nil
		}

		if err := s.repo.SetEmployeeActive(ctx, tx, id, false); err != nil {
			return err
		}
		s.logger.Info("Employee deactivated", zap.Int("id", id))
		return nil
	})
}

// HeldAssets lists every asset the employee has ever been bound to.
func (s *EmployeeService) HeldAssets(ctx context.Context, id int) ([]models.Asset, error) {
	if _, err := s.repo.GetEmployee(ctx, s.store.Executor(), id); err != nil {
		return nil, err
	}

	bindings, err := s.bindings.ListForEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(bindings))
	for _, binding := range bindings {
		asset, err := s.assets.GetAsset(ctx, s.store.Executor(), binding.AssetID)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}

	return assets, nil
}
