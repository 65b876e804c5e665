package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type BindingRepository struct {
	s *Store
}

func (r *BindingRepository) InsertBindingIfAbsent(ctx context.Context, q repository.Executor, binding *models.AssetBinding) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertBindingIfAbsent"); err != nil {
		return false, err
	}

	key := bindingKey{employeeID: binding.EmployeeID, assetID: binding.AssetID}
	if _, ok := r.s.data.bindings[key]; ok {
		return false, nil
	}
	if binding.FirstBoundAt.IsZero() {
		binding.FirstBoundAt = r.s.Now()
	}
	r.s.data.bindings[key] = *binding
	return true, nil
}

func (r *BindingRepository) GetBinding(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.AssetBinding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	binding, ok := r.s.data.bindings[bindingKey{employeeID: employeeID, assetID: assetID}]
	if !ok {
		return nil, custom_error.NewNotFoundError("asset binding", [2]int{employeeID, assetID})
	}
	return &binding, nil
}

func (r *BindingRepository) ListBindings(ctx context.Context, q repository.Executor, filter models.BindingFilter) ([]models.AssetBinding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var bindings []models.AssetBinding
	for _, binding := range r.s.data.bindings {
		if filter.EmployeeID != nil && binding.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.AssetID != nil && binding.AssetID != *filter.AssetID {
			continue
		}
		bindings = append(bindings, binding)
	}
	sortBindings(bindings)
	return bindings, nil
}

// AllBindings returns every stored binding ordered by employee then asset.
func (s *Store) AllBindings() []models.AssetBinding {
	s.mu.Lock()
	defer s.mu.Unlock()

	bindings := make([]models.AssetBinding, 0, len(s.data.bindings))
	for _, binding := range s.data.bindings {
		bindings = append(bindings, binding)
	}
	sortBindings(bindings)
	return bindings
}

func sortBindings(bindings []models.AssetBinding) {
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].EmployeeID != bindings[j].EmployeeID {
			return bindings[i].EmployeeID < bindings[j].EmployeeID
		}
		return bindings[i].AssetID < bindings[j].AssetID
	})
}
