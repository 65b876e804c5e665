package assignments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/bindings"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/catalog"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/inventorytest"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/metrics"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/auditlog"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store   *inventorytest.Store
	service *AssignmentService
	metrics *metrics.Metrics
	actor   models.Actor
	ana     models.Employee
	luis    models.Employee
	laptop  models.Asset
	monitor models.Asset
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inventorytest.NewStore()
	role := store.SeedCatalogEntry(metadata.KindRole, "Analista")
	area := store.SeedCatalogEntry(metadata.KindArea, "Finanzas")
	company := store.SeedCatalogEntry(metadata.KindCompany, "Acme")
	city := store.SeedCatalogEntry(metadata.KindCity, "Bogotá")
	laptopType := store.SeedCatalogEntry(metadata.KindEquipmentType, "Portátil")
	monitorType := store.SeedCatalogEntry(metadata.KindEquipmentType, "Monitor")

	f := &fixture{
		store:   store,
		metrics: metrics.New(),
		actor:   store.SeedUser("admin", roles.Admin),
		ana:     store.SeedEmployee("Ana Ruiz", role, area, company, city),
		luis:    store.SeedEmployee("Luis Gómez", role, area, company, city),
		laptop:  store.SeedAsset("Dell", "Latitude 5420", "SN001", laptopType),
		monitor: store.SeedAsset("LG", "24MK430", "SN002", monitorType),
		clock:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	var mu sync.Mutex
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	audit := auditlog.NewAuditLog(store.Audit(), zap.NewNop()).WithClock(tick)
	binder := bindings.NewBinder(store, store.Bindings(), zap.NewNop())
	resolver := catalog.NewResolver(store, store.Catalog(), zap.NewNop())
	f.service = NewService(store, store.Assignments(), store.Employees(), store.Assets(), binder, resolver, audit, f.metrics, zap.NewNop())
	f.service.now = tick
	return f
}

func (f *fixture) assign(t *testing.T, employee models.Employee, asset models.Asset) *models.Assignment {
	t.Helper()
	assignment, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: employee.ID,
		AssetID:    asset.ID,
	}, f.actor)
	require.NoError(t, err)
	return assignment
}

// transitions reads the committed transition counter for action from the registry.
func (f *fixture) transitions(t *testing.T, action metadata.Action) float64 {
	t.Helper()
	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "inventario_assignment_transitions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "action" && label.GetValue() == string(action) {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func actionsOf(entries []models.AuditEntry) []metadata.Action {
	actions := make([]metadata.Action, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func TestCreate_WritesAssignmentBindingAndAudit(t *testing.T) {
	f := newFixture(t)

	assignment := f.assign(t, f.ana, f.laptop)

	assert.True(t, assignment.Active)
	assert.Nil(t, assignment.RetiredAt)
	require.NotNil(t, assignment.SiteID)
	assert.Equal(t, f.ana.CityID, *assignment.SiteID)
	require.NotNil(t, assignment.CreatedByID)
	assert.Equal(t, f.actor.ID, *assignment.CreatedByID)

	require.Len(t, f.store.AllBindings(), 1)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, metadata.ActionAssigned, entries[0].Action)
	require.NotNil(t, entries[0].AssignmentID)
	assert.Equal(t, assignment.ID, *entries[0].AssignmentID)
	assert.Equal(t, f.actor.ID, entries[0].ActorID)

	assert.Equal(t, float64(1), f.transitions(t, metadata.ActionAssigned))
}

func TestCreate_ExplicitSiteAndDate(t *testing.T) {
	f := newFixture(t)
	site := f.store.SeedCatalogEntry(metadata.KindCity, "Medellín")
	assignedAt := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	handedOver := "  Mesa de ayuda "

	assignment, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID:   f.ana.ID,
		AssetID:      f.laptop.ID,
		SiteID:       &site.ID,
		AssignedAt:   &assignedAt,
		HandedOverBy: &handedOver,
	}, f.actor)
	require.NoError(t, err)

	assert.Equal(t, site.ID, *assignment.SiteID)
	assert.Equal(t, assignedAt, assignment.AssignedAt)
	require.NotNil(t, assignment.HandedOverBy)
	assert.Equal(t, "Mesa de ayuda", *assignment.HandedOverBy)
}

func TestCreate_SiteMustBeActiveCity(t *testing.T) {
	f := newFixture(t)
	company := f.store.SeedCatalogEntry(metadata.KindCompany, "Molinos SA")
	missing := 9999

	_, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: f.ana.ID,
		AssetID:    f.laptop.ID,
		SiteID:     &company.ID,
	}, f.actor)
	assert.True(t, custom_error.IsValidation(err), "got %v", err)

	_, err = f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: f.ana.ID,
		AssetID:    f.laptop.ID,
		SiteID:     &missing,
	}, f.actor)
	assert.True(t, custom_error.IsNotFound(err), "got %v", err)

	assert.Empty(t, f.store.AllAssignments())
}

func TestUpdate_SiteMustBeActiveCity(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)
	area := f.store.SeedCatalogEntry(metadata.KindArea, "Logística")
	missing := 9999

	_, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{SiteID: &area.ID}, f.actor)
	assert.True(t, custom_error.IsValidation(err), "got %v", err)

	_, err = f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{SiteID: &missing}, f.actor)
	assert.True(t, custom_error.IsNotFound(err), "got %v", err)

	site := f.store.SeedCatalogEntry(metadata.KindCity, "Cali")
	updated, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{SiteID: &site.ID}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, site.ID, *updated.SiteID)
}

func TestCreate_RejectsDuplicateActivePair(t *testing.T) {
	f := newFixture(t)
	first := f.assign(t, f.ana, f.laptop)

	_, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: f.ana.ID,
		AssetID:    f.laptop.ID,
	}, f.actor)

	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ExistingID)
	assert.Len(t, f.store.AllAssignments(), 1)
	assert.Len(t, f.store.AuditEntries(), 1)
}

func TestCreate_ConcurrentCallsCreateOneAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Create(ctx, models.CreateAssignmentRequest{
				EmployeeID: f.ana.ID,
				AssetID:    f.laptop.ID,
			}, f.actor)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case custom_error.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.store.AllAssignments(), 1)
	assert.Len(t, f.store.AuditEntries(), 1)
	assert.Len(t, f.store.AllBindings(), 1)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, models.CreateAssignmentRequest{EmployeeID: 999, AssetID: f.laptop.ID}, f.actor)
	assert.True(t, custom_error.IsNotFound(err))

	_, err = f.service.Create(ctx, models.CreateAssignmentRequest{EmployeeID: f.ana.ID, AssetID: 999}, f.actor)
	assert.True(t, custom_error.IsNotFound(err))

	_, err = f.service.Create(ctx, models.CreateAssignmentRequest{EmployeeID: f.ana.ID, AssetID: f.laptop.ID}, models.Actor{})
	assert.True(t, custom_error.IsValidation(err))

	require.NoError(t, f.store.WithTransaction(ctx, func(tx repository.Executor) error {
		return f.store.Employees().SetEmployeeActive(ctx, tx, f.luis.ID, false)
	}))
	_, err = f.service.Create(ctx, models.CreateAssignmentRequest{EmployeeID: f.luis.ID, AssetID: f.laptop.ID}, f.actor)
	assert.True(t, custom_error.IsValidation(err))

	assert.Empty(t, f.store.AllAssignments())
	assert.Empty(t, f.store.AuditEntries())
}

func TestCreate_RollsBackWhenAuditFails(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("InsertAuditEntry", errors.New("disk full"))

	_, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: f.ana.ID,
		AssetID:    f.laptop.ID,
	}, f.actor)
	require.Error(t, err)

	assert.Empty(t, f.store.AllAssignments())
	assert.Empty(t, f.store.AllBindings())
	assert.Empty(t, f.store.AuditEntries())
	assert.Equal(t, float64(0), f.transitions(t, metadata.ActionAssigned))
}

func TestCreate_RollsBackWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("InsertAssignment", errors.New("connection reset"))

	_, err := f.service.Create(context.Background(), models.CreateAssignmentRequest{
		EmployeeID: f.ana.ID,
		AssetID:    f.laptop.ID,
	}, f.actor)
	require.Error(t, err)

	assert.Empty(t, f.store.AuditEntries())
	assert.Empty(t, f.store.AllBindings())
}

func TestRetire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.assign(t, f.ana, f.laptop)

	retired, err := f.service.Retire(ctx, assignment.ID, models.RetireAssignmentRequest{Note: "devuelto"}, f.actor)
	require.NoError(t, err)

	assert.False(t, retired.Active)
	require.NotNil(t, retired.RetiredAt)
	assert.False(t, retired.RetiredAt.Before(retired.AssignedAt))
	assert.Len(t, f.store.AllBindings(), 1)

	entries, err := f.service.History(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, []metadata.Action{metadata.ActionRetired, metadata.ActionAssigned}, actionsOf(entries))
	assert.Equal(t, "devuelto", entries[0].Note)

	_, err = f.service.Retire(ctx, assignment.ID, models.RetireAssignmentRequest{}, f.actor)
	assert.True(t, custom_error.IsValidation(err))
	assert.Len(t, f.store.AuditEntries(), 2)
	assert.Equal(t, float64(1), f.transitions(t, metadata.ActionRetired))
}

func TestRetire_BeforeAssignedAt(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)
	early := assignment.AssignedAt.Add(-time.Hour)

	_, err := f.service.Retire(context.Background(), assignment.ID, models.RetireAssignmentRequest{RetiredAt: &early}, f.actor)
	assert.True(t, custom_error.IsValidation(err))

	current, err := f.service.Get(context.Background(), assignment.ID)
	require.NoError(t, err)
	assert.True(t, current.Active)
}

func TestRetire_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Retire(context.Background(), 42, models.RetireAssignmentRequest{}, f.actor)
	assert.True(t, custom_error.IsNotFound(err))
}

func TestRetiredPairCanBeAssignedAgain(t *testing.T) {
	f := newFixture(t)
	first := f.assign(t, f.ana, f.laptop)
	_, err := f.service.Retire(context.Background(), first.ID, models.RetireAssignmentRequest{}, f.actor)
	require.NoError(t, err)

	second := f.assign(t, f.ana, f.laptop)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, f.store.AllAssignments(), 2)
	assert.Len(t, f.store.AllBindings(), 1)
}

func TestUpdate_NoChangesWritesNothing(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)
	note := assignment.Note

	updated, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{
		EmployeeID: &f.ana.ID,
		Note:       &note,
	}, f.actor)
	require.NoError(t, err)

	assert.Equal(t, assignment.UpdatedAt, updated.UpdatedAt)
	assert.Len(t, f.store.AuditEntries(), 1)
	assert.Equal(t, float64(0), f.transitions(t, metadata.ActionUpdated))
}

func TestUpdate_FieldChange(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)
	note := "cargador incluido"

	updated, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{Note: &note}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)
	assert.Equal(t, assignment.ID, updated.ID)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, metadata.ActionUpdated, entries[1].Action)
	assert.Contains(t, entries[1].Data, "note")
}

func TestUpdate_ReassignKeepsID(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)

	updated, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{EmployeeID: &f.luis.ID}, f.actor)
	require.NoError(t, err)

	assert.Equal(t, assignment.ID, updated.ID)
	assert.Equal(t, f.luis.ID, updated.EmployeeID)
	assert.Len(t, f.store.AllBindings(), 2)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, metadata.ActionReassigned, entries[1].Action)
	assert.Equal(t, f.luis.ID, entries[1].EmployeeID)
	assert.Equal(t, float64(1), f.transitions(t, metadata.ActionReassigned))
}

func TestUpdate_ReassignConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.assign(t, f.luis, f.laptop)
	assignment := f.assign(t, f.ana, f.laptop)

	_, err := f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{EmployeeID: &f.luis.ID}, f.actor)

	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, existing.ID, conflict.ExistingID)

	current, err := f.service.Get(context.Background(), assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ana.ID, current.EmployeeID)
	assert.Len(t, f.store.AuditEntries(), 2)
}

func TestUpdate_RetiredAssignment(t *testing.T) {
	f := newFixture(t)
	assignment := f.assign(t, f.ana, f.laptop)
	_, err := f.service.Retire(context.Background(), assignment.ID, models.RetireAssignmentRequest{}, f.actor)
	require.NoError(t, err)

	note := "tarde"
	_, err = f.service.Update(context.Background(), assignment.ID, models.AssignmentChanges{Note: &note}, f.actor)
	assert.True(t, custom_error.IsValidation(err))
}

func TestReactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assignment := f.assign(t, f.ana, f.monitor)

	_, err := f.service.Reactivate(ctx, assignment.ID, models.ReactivateAssignmentRequest{}, f.actor)
	assert.True(t, custom_error.IsValidation(err))

	_, err = f.service.Retire(ctx, assignment.ID, models.RetireAssignmentRequest{}, f.actor)
	require.NoError(t, err)

	reactivated, err := f.service.Reactivate(ctx, assignment.ID, models.ReactivateAssignmentRequest{Note: "regresa de vacaciones"}, f.actor)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)
	assert.Nil(t, reactivated.RetiredAt)
	assert.Equal(t, assignment.ID, reactivated.ID)

	entries, err := f.service.History(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, []metadata.Action{metadata.ActionAssigned, metadata.ActionRetired, metadata.ActionAssigned}, actionsOf(entries))
	assert.Contains(t, entries[0].Note, "regresa de vacaciones")
}

func TestReactivate_ConflictWithNewerAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.assign(t, f.ana, f.laptop)
	_, err := f.service.Retire(ctx, first.ID, models.RetireAssignmentRequest{}, f.actor)
	require.NoError(t, err)
	second := f.assign(t, f.ana, f.laptop)

	_, err = f.service.Reactivate(ctx, first.ID, models.ReactivateAssignmentRequest{}, f.actor)

	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, second.ID, conflict.ExistingID)
}

func TestHistory_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.History(context.Background(), 7)
	assert.True(t, custom_error.IsNotFound(err))
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.assign(t, f.ana, f.laptop)
	monitor := f.assign(t, f.ana, f.monitor)
	f.assign(t, f.luis, f.monitor)
	_, err := f.service.Retire(ctx, monitor.ID, models.RetireAssignmentRequest{}, f.actor)
	require.NoError(t, err)

	active := true
	list, err := f.service.List(ctx, models.AssignmentFilter{EmployeeID: &f.ana.ID, Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.laptop.ID, list[0].AssetID)

	all, err := f.service.AuditTrail(ctx, models.AuditFilter{AssetID: &f.monitor.ID})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
