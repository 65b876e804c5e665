package bindings

import (
	"context"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const bindingTable = "asset_bindings"

type Repository interface {
	InsertBindingIfAbsent(ctx context.Context, q repository.Executor, binding *models.AssetBinding) (bool, error)
	GetBinding(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.AssetBinding, error)
	ListBindings(ctx context.Context, q repository.Executor, filter models.BindingFilter) ([]models.AssetBinding, error)
}

type BindingRepository struct{}

func NewRepository() *BindingRepository {
	return &BindingRepository{}
}

// InsertBindingIfAbsent reports whether a new row was written. An existing pair is
// left untouched.
func (r *BindingRepository) InsertBindingIfAbsent(ctx context.Context, q repository.Executor, binding *models.AssetBinding) (bool, error) {
	result, err := q.Insert(bindingTable).
		Rows(goqu.Record{
			"employee_id":    binding.EmployeeID,
			"asset_id":       binding.AssetID,
			"first_bound_at": binding.FirstBoundAt,
			"created_by_id":  repository.Nullable(binding.CreatedByID),
		}).
		OnConflict(goqu.DoNothing()).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, custom_error.FromDB(err, "failed to insert asset binding")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *BindingRepository) GetBinding(ctx context.Context, q repository.Executor, employeeID, assetID int) (*models.AssetBinding, error) {
	var binding models.AssetBinding
	found, err := q.From(bindingTable).
		Select("employee_id", "asset_id", "first_bound_at", "created_by_id").
		Where(goqu.Ex{
			"employee_id": employeeID,
			"asset_id":    assetID,
		}).
		Executor().
		ScanStructContext(ctx, &binding)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get asset binding")
	}
	if !found {
		return nil, custom_error.NewNotFoundError("asset binding", fmt.Sprintf("%d/%d", employeeID, assetID))
	}

	return &binding, nil
}

func (r *BindingRepository) ListBindings(ctx context.Context, q repository.Executor, filter models.BindingFilter) ([]models.AssetBinding, error) {
	conditions := repository.NewQueryBuilder()
	if filter.EmployeeID != nil {
		conditions.AddCondition("employee_id", *filter.EmployeeID)
	}
	if filter.AssetID != nil {
		conditions.AddCondition("asset_id", *filter.AssetID)
	}

	var bindings []models.AssetBinding
	err := q.From(bindingTable).
		Select("employee_id", "asset_id", "first_bound_at", "created_by_id").
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("employee_id").Asc(), goqu.I("asset_id").Asc()).
		Executor().
		ScanStructsContext(ctx, &bindings)
	if err != nil {
		return nil, custom_error.FromDB(err, "error executing SQL statement")
	}

	return bindings, nil
}
