package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/inventorytest"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T) (*Resolver, *inventorytest.Store, models.Actor) {
	t.Helper()
	store := inventorytest.NewStore()
	actor := store.SeedUser("admin", roles.Admin)
	return NewResolver(store, store.Catalog(), zap.NewNop()), store, actor
}

func TestResolveOrCreateIsIdempotentAcrossCaseAndWhitespace(t *testing.T) {
	resolver, store, actor := newTestResolver(t)
	ctx := context.Background()

	first, err := resolver.ResolveOrCreate(ctx, metadata.KindArea, "  Sistemas ", actor)
	require.NoError(t, err)

	for _, name := range []string{"SISTEMAS", "sistemas", "Sistemas\t", " sIsTeMaS  "} {
		entry, err := resolver.ResolveOrCreate(ctx, metadata.KindArea, name, actor)
		require.NoError(t, err)
		assert.Equal(t, first.ID, entry.ID, name)
	}

	entries := store.CatalogEntries(metadata.KindArea)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sistemas", entries[0].Name)
	assert.Equal(t, actor.CreatedBy(), entries[0].CreatedByID)
}

func TestResolveOrCreateCollapsesInnerWhitespace(t *testing.T) {
	resolver, _, actor := newTestResolver(t)
	ctx := context.Background()

	a, err := resolver.ResolveOrCreate(ctx, metadata.KindCompany, "Molinos   del  Valle", actor)
	require.NoError(t, err)
	b, err := resolver.ResolveOrCreate(ctx, metadata.KindCompany, "molinos del valle", actor)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Molinos del Valle", a.Name)
}

func TestResolveOrCreateSeparatesKinds(t *testing.T) {
	resolver, _, actor := newTestResolver(t)
	ctx := context.Background()

	city, err := resolver.ResolveOrCreate(ctx, metadata.KindCity, "Cali", actor)
	require.NoError(t, err)
	company, err := resolver.ResolveOrCreate(ctx, metadata.KindCompany, "Cali", actor)
	require.NoError(t, err)

	assert.NotEqual(t, city.ID, company.ID)
}

func TestResolveOrCreateValidation(t *testing.T) {
	resolver, _, actor := newTestResolver(t)
	ctx := context.Background()

	_, err := resolver.ResolveOrCreate(ctx, metadata.KindRole, "   ", actor)
	assert.True(t, custom_error.IsValidation(err))

	_, err = resolver.ResolveOrCreate(ctx, metadata.CatalogKind("planet"), "Mars", actor)
	assert.True(t, custom_error.IsValidation(err))
}

func TestResolveOrCreateReactivatesInactiveEntry(t *testing.T) {
	resolver, store, actor := newTestResolver(t)
	ctx := context.Background()

	seeded := store.SeedCatalogEntry(metadata.KindRole, "Analista")
	require.NoError(t, resolver.SetActive(ctx, metadata.KindRole, seeded.ID, false))

	entry, err := resolver.ResolveOrCreate(ctx, metadata.KindRole, "analista", actor)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, entry.ID)
	assert.True(t, entry.Active)
	assert.True(t, store.CatalogEntries(metadata.KindRole)[0].Active)
}

func TestResolveOrCreateSurfacesStorageConflict(t *testing.T) {
	resolver, store, actor := newTestResolver(t)

	store.FailOn("InsertEntry", custom_error.NewConflictError("area", 0, "duplicate"))

	_, err := resolver.ResolveOrCreate(context.Background(), metadata.KindArea, "Finanzas", actor)
	assert.True(t, custom_error.IsConflict(err))
	assert.Empty(t, store.CatalogEntries(metadata.KindArea))
}

func TestResolveOrCreateConcurrentCallsYieldOneEntry(t *testing.T) {
	resolver, store, actor := newTestResolver(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := resolver.ResolveOrCreate(ctx, metadata.KindCity, "Bogotá", actor)
			if assert.NoError(t, err) {
				ids[i] = entry.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, store.CatalogEntries(metadata.KindCity), 1)
}

func TestResolveOrCreateTxJoinsCallerTransaction(t *testing.T) {
	resolver, store, actor := newTestResolver(t)
	ctx := context.Background()
	boom := errors.New("row failed")

	err := store.WithTransaction(ctx, func(tx repository.Executor) error {
		_, created, err := resolver.ResolveOrCreateTx(ctx, tx, metadata.KindEquipmentType, "Portátil", actor)
		require.NoError(t, err)
		assert.True(t, created)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.CatalogEntries(metadata.KindEquipmentType))
}

func TestResolveRefTx(t *testing.T) {
	resolver, store, actor := newTestResolver(t)
	ctx := context.Background()
	city := store.SeedCatalogEntry(metadata.KindCity, "Medellín")
	area := store.SeedCatalogEntry(metadata.KindArea, "Logística")

	err := store.WithTransaction(ctx, func(tx repository.Executor) error {
		entry, err := resolver.ResolveRefTx(ctx, tx, metadata.KindCity, models.CatalogRef{ID: &city.ID}, actor)
		require.NoError(t, err)
		assert.Equal(t, city.ID, entry.ID)

		_, err = resolver.ResolveRefTx(ctx, tx, metadata.KindCity, models.CatalogRef{ID: &area.ID}, actor)
		assert.True(t, custom_error.IsValidation(err))

		missing := 999
		_, err = resolver.ResolveRefTx(ctx, tx, metadata.KindCity, models.CatalogRef{ID: &missing}, actor)
		assert.True(t, custom_error.IsNotFound(err))

		entry, err = resolver.ResolveRefTx(ctx, tx, metadata.KindCity, models.CatalogRef{Name: "MEDELLÍN"}, actor)
		require.NoError(t, err)
		assert.Equal(t, city.ID, entry.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	resolver, _, actor := newTestResolver(t)
	ctx := context.Background()

	first, err := resolver.Create(ctx, metadata.KindCompany, "Acme", actor)
	require.NoError(t, err)

	_, err = resolver.Create(ctx, metadata.KindCompany, " ACME ", actor)
	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ExistingID)
}

func TestRename(t *testing.T) {
	resolver, store, _ := newTestResolver(t)
	ctx := context.Background()
	a := store.SeedCatalogEntry(metadata.KindArea, "Compras")
	b := store.SeedCatalogEntry(metadata.KindArea, "Ventas")

	renamed, err := resolver.Rename(ctx, metadata.KindArea, a.ID, "  compras  nacionales ")
	require.NoError(t, err)
	assert.Equal(t, "compras nacionales", renamed.Name)

	_, err = resolver.Rename(ctx, metadata.KindArea, a.ID, "VENTAS")
	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, b.ID, conflict.ExistingID)

	_, err = resolver.Rename(ctx, metadata.KindCity, a.ID, "Otra")
	assert.True(t, custom_error.IsNotFound(err))
}

func TestListHidesInactiveByDefault(t *testing.T) {
	resolver, store, _ := newTestResolver(t)
	ctx := context.Background()
	store.SeedCatalogEntry(metadata.KindRole, "Analista")
	retired := store.SeedCatalogEntry(metadata.KindRole, "Auxiliar")
	require.NoError(t, resolver.SetActive(ctx, metadata.KindRole, retired.ID, false))

	active, err := resolver.List(ctx, metadata.KindRole, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := resolver.List(ctx, metadata.KindRole, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
