package bindings

import (
	"context"
	"testing"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/inventorytest"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store    *inventorytest.Store
	binder   *Binder
	actor    models.Actor
	employee models.Employee
	asset    models.Asset
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := inventorytest.NewStore()
	role := store.SeedCatalogEntry(metadata.KindRole, "Analista")
	area := store.SeedCatalogEntry(metadata.KindArea, "Sistemas")
	company := store.SeedCatalogEntry(metadata.KindCompany, "Molinos")
	city := store.SeedCatalogEntry(metadata.KindCity, "Cali")
	laptop := store.SeedCatalogEntry(metadata.KindEquipmentType, "Portátil")

	return fixture{
		store:    store,
		binder:   NewBinder(store, store.Bindings(), zap.NewNop()),
		actor:    store.SeedUser("admin", roles.Admin),
		employee: store.SeedEmployee("Ana Ruiz", role, area, company, city),
		asset:    store.SeedAsset("Dell", "Latitude 5420", "SN-1", laptop),
	}
}

func TestEnsureBindingIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var first, second *models.AssetBinding
	err := f.store.WithTransaction(ctx, func(tx repository.Executor) error {
		var err error
		first, err = f.binder.EnsureBinding(ctx, tx, &f.employee, &f.asset, f.actor)
		return err
	})
	require.NoError(t, err)

	f.binder.now = func() time.Time { return first.FirstBoundAt.Add(time.Hour) }
	err = f.store.WithTransaction(ctx, func(tx repository.Executor) error {
		var err error
		second, err = f.binder.EnsureBinding(ctx, tx, &f.employee, &f.asset, f.actor)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, first.FirstBoundAt, second.FirstBoundAt)
	assert.Len(t, f.store.AllBindings(), 1)
	assert.Equal(t, f.actor.CreatedBy(), second.CreatedByID)
}

func TestListForEmployeeAndAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	monitor := f.store.SeedAsset("LG", "24MK430", "", f.store.CatalogEntries(metadata.KindEquipmentType)[0])

	err := f.store.WithTransaction(ctx, func(tx repository.Executor) error {
		if _, err := f.binder.EnsureBinding(ctx, tx, &f.employee, &f.asset, f.actor); err != nil {
			return err
		}
		_, err := f.binder.EnsureBinding(ctx, tx, &f.employee, &monitor, f.actor)
		return err
	})
	require.NoError(t, err)

	held, err := f.binder.ListForEmployee(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Len(t, held, 2)

	holders, err := f.binder.ListForAsset(ctx, monitor.ID)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, f.employee.ID, holders[0].EmployeeID)
}

func TestBindingRepositoryInsertUsesOnConflictDoNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewRepository(db)
	mock.ExpectExec(`INSERT INTO "asset_bindings" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := NewRepository().InsertBindingIfAbsent(context.Background(), repo.Executor(), &models.AssetBinding{
		EmployeeID:   1,
		AssetID:      2,
		FirstBoundAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
