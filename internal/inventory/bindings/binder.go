package bindings

import (
	"context"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

// Binder maintains the "has ever held" relation between employees and assets.
// Bindings are only ever added.
type Binder struct {
	store  repository.Transactor
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewBinder(store repository.Transactor, repo Repository, logger *zap.Logger) *Binder {
	return &Binder{
		store:  store,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureBinding records that employee has held asset. Calling it again for the
// same pair returns the original binding.
func (b *Binder) EnsureBinding(ctx context.Context, tx repository.Executor, employee *models.Employee, asset *models.Asset, actor models.Actor) (*models.AssetBinding, error) {
	binding := &models.AssetBinding{
		EmployeeID:   employee.ID,
		AssetID:      asset.ID,
		FirstBoundAt: b.now(),
		CreatedByID:  actor.CreatedBy(),
	}

	created, err := b.repo.InsertBindingIfAbsent(ctx, tx, binding)
	if err != nil {
		return nil, err
	}
	if created {
		b.logger.Debug("Asset binding created",
			zap.Int("employee_id", employee.ID),
			zap.Int("asset_id", asset.ID),
		)
	}

	return b.repo.GetBinding(ctx, tx, employee.ID, asset.ID)
}

func (b *Binder) ListForEmployee(ctx context.Context, employeeID int) ([]models.AssetBinding, error) {
	return b.repo.ListBindings(ctx, b.store.Executor(), models.BindingFilter{EmployeeID: &employeeID})
}

func (b *Binder) ListForAsset(ctx context.Context, assetID int) ([]models.AssetBinding, error) {
	return b.repo.ListBindings(ctx, b.store.Executor(), models.BindingFilter{AssetID: &assetID})
}
