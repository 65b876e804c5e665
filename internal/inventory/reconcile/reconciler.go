package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/assets"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/metrics"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	reasonMissingEmployee    = "missing required field: employee"
	reasonMissingBrand       = "missing required field: brand"
	reasonEmployeeIncomplete = "insufficient data to create employee"
	reasonAssetIncomplete    = "insufficient data to create asset"
	warningDateNotParseable  = "date not recognised, current time used"
	defaultMaxRows           = 5000
)

type CatalogResolver interface {
	ResolveOrCreateTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, rawName string, actor models.Actor) (*models.CatalogEntry, bool, error)
}

type EmployeeStore interface {
	FindEmployeeByKey(ctx context.Context, q repository.Executor, normalizedName string, roleID, areaID, companyID int) (*models.Employee, error)
	InsertEmployee(ctx context.Context, q repository.Executor, employee *models.Employee) error
}

type AssetStore interface {
	FindAssetBySerial(ctx context.Context, q repository.Executor, serial string) (*models.Asset, error)
	FindAssetByBrandReference(ctx context.Context, q repository.Executor, normalizedBrand, normalizedReference string) (*models.Asset, error)
	InsertAsset(ctx context.Context, q repository.Executor, asset *models.Asset) error
}

type Binder interface {
	EnsureBinding(ctx context.Context, tx repository.Executor, employee *models.Employee, asset *models.Asset, actor models.Actor) (*models.AssetBinding, error)
}

type AssignmentCreator interface {
	CreateTx(ctx context.Context, tx repository.Executor, req models.CreateAssignmentRequest, actor models.Actor) (*models.Assignment, error)
}

// RowError is a row-scoped failure. It only ever lives in a Report.
type RowError struct {
	RowIndex int    `json:"row_index"`
	Line     int    `json:"line,omitempty"`
	Code     string `json:"code"`
	Reason   string `json:"reason"`
}

type Report struct {
	BatchID               string     `json:"batch_id"`
	RowsProcessed         int        `json:"rows_processed"`
	EmployeesCreated      int        `json:"employees_created"`
	AssetsCreated         int        `json:"assets_created"`
	AssignmentsCreated    int        `json:"assignments_created"`
	CatalogEntriesCreated int        `json:"catalog_entries_created"`
	RowErrors             []RowError `json:"row_errors"`
	Warnings              []RowError `json:"warnings,omitempty"`
	StartedAt             time.Time  `json:"started_at"`
	FinishedAt            time.Time  `json:"finished_at"`
}

// rowTally holds what one row created. It is only added to the report after commit.
type rowTally struct {
	employees int
	assets    int
	catalog   int
}

// Reconciler maps external rows onto the entity graph. Each row is its own
// transaction, so a failing row never rolls back the rows before it and entities
// created by one row are visible to the next.
type Reconciler struct {
	store       repository.Transactor
	catalog     CatalogResolver
	employees   EmployeeStore
	assets      AssetStore
	binder      Binder
	assignments AssignmentCreator
	metrics     *metrics.Metrics
	logger      *zap.Logger
	maxRows     int
	now         func() time.Time
}

func NewReconciler(
	store repository.Transactor,
	catalog CatalogResolver,
	employees EmployeeStore,
	assetStore AssetStore,
	binder Binder,
	assignments AssignmentCreator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:       store,
		catalog:     catalog,
		employees:   employees,
		assets:      assetStore,
		binder:      binder,
		assignments: assignments,
		metrics:     m,
		logger:      logger,
		maxRows:     defaultMaxRows,
		now:         time.Now,
	}
}

// WithMaxRows caps the batch size. Zero or less keeps the default.
func (r *Reconciler) WithMaxRows(n int) *Reconciler {
	if n > 0 {
		r.maxRows = n
	}
	return r
}

// ReconcileSource reads every row from src and reconciles them.
func (r *Reconciler) ReconcileSource(ctx context.Context, src RowSource, actor models.Actor) (*Report, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(ctx, rows, actor)
}

// Reconcile processes rows in input order. Row failures are recorded in the report
// and never stop the batch. Cancellation is checked between rows; rows already
// committed stay committed and the partial report is returned with the context error.
func (r *Reconciler) Reconcile(ctx context.Context, rows []Row, actor models.Actor) (*Report, error) {
	if actor.ID == 0 {
		return nil, custom_error.NewValidationError("actor", "reconciliation must be attributed to an actor")
	}
	if len(rows) > r.maxRows {
		return nil, custom_error.NewValidationError("rows", "batch of %d rows exceeds the limit of %d", len(rows), r.maxRows)
	}

	report := &Report{
		BatchID:   uuid.NewString(),
		RowErrors: []RowError{},
		StartedAt: r.now(),
	}
	logger := r.logger.With(zap.String("batch_id", report.BatchID), zap.Int("actor_id", actor.ID))
	logger.Info("Reconciliation started", zap.Int("rows", len(rows)))

	var batchErr error
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			batchErr = err
			break
		}

		var (
			tally   rowTally
			warning string
		)
		err := r.store.WithTransaction(ctx, func(tx repository.Executor) error {
			tally = rowTally{}
			var err error
			warning, err = r.reconcileRow(ctx, tx, row, actor, &tally)
			return err
		})
		report.RowsProcessed++

		if err != nil {
			report.RowErrors = append(report.RowErrors, newRowError(i, row, err))
			logger.Debug("Row rejected", zap.Int("row_index", i), zap.Int("line", row.Line), zap.Error(err))
			continue
		}

		report.EmployeesCreated += tally.employees
		report.AssetsCreated += tally.assets
		report.CatalogEntriesCreated += tally.catalog
		report.AssignmentsCreated++
		r.metrics.RecordTransition(string(metadata.ActionAssigned))
		if warning != "" {
			report.Warnings = append(report.Warnings, RowError{RowIndex: i, Line: row.Line, Code: "warning", Reason: warning})
		}
	}

	report.FinishedAt = r.now()
	r.metrics.RecordImport(report.AssignmentsCreated, len(report.RowErrors), report.FinishedAt.Sub(report.StartedAt))
	logger.Info("Reconciliation finished",
		zap.Int("rows_processed", report.RowsProcessed),
		zap.Int("employees_created", report.EmployeesCreated),
		zap.Int("assets_created", report.AssetsCreated),
		zap.Int("assignments_created", report.AssignmentsCreated),
		zap.Int("row_errors", len(report.RowErrors)),
		zap.Error(batchErr),
	)

	return report, batchErr
}

// reconcileRow runs inside the row transaction and returns a non-fatal warning.
func (r *Reconciler) reconcileRow(ctx context.Context, tx repository.Executor, row Row, actor models.Actor, tally *rowTally) (string, error) {
	name := metadata.CleanName(row.Employee)
	if name == "" {
		return "", custom_error.NewValidationError("", reasonMissingEmployee)
	}
	brand := metadata.CleanName(row.Brand)
	if brand == "" {
		return "", custom_error.NewValidationError("", reasonMissingBrand)
	}

	refs := map[metadata.CatalogKind]*models.CatalogEntry{}
	for _, field := range []struct {
		kind metadata.CatalogKind
		raw  string
	}{
		{metadata.KindRole, row.Role},
		{metadata.KindArea, row.Area},
		{metadata.KindCompany, row.Company},
		{metadata.KindEquipmentType, row.EquipmentType},
		{metadata.KindCity, row.City},
	} {
		entry, err := r.resolve(ctx, tx, field.kind, field.raw, actor, tally)
		if err != nil {
			return "", err
		}
		refs[field.kind] = entry
	}

	var siteID *int
	site, err := r.resolve(ctx, tx, metadata.KindCity, row.Site, actor, tally)
	if err != nil {
		return "", err
	}
	if site != nil {
		siteID = &site.ID
	}

	employee, err := r.resolveEmployee(ctx, tx, name, refs, actor, tally)
	if err != nil {
		return "", err
	}
	asset, err := r.resolveAsset(ctx, tx, brand, row, refs[metadata.KindEquipmentType], actor, tally)
	if err != nil {
		return "", err
	}

	if _, err := r.binder.EnsureBinding(ctx, tx, employee, asset, actor); err != nil {
		return "", err
	}

	req := models.CreateAssignmentRequest{
		EmployeeID: employee.ID,
		AssetID:    asset.ID,
		SiteID:     siteID,
		Note:       metadata.CleanName(row.Notes),
	}
	if handedOverBy := metadata.CleanName(row.HandedOverBy); handedOverBy != "" {
		req.HandedOverBy = &handedOverBy
	}

	var warning string
	if row.Date != "" {
		if assignedAt, ok := ParseDate(row.Date); ok {
			req.AssignedAt = &assignedAt
		} else {
			warning = warningDateNotParseable
		}
	}

	if _, err := r.assignments.CreateTx(ctx, tx, req, actor); err != nil {
		return "", err
	}
	return warning, nil
}

// resolve returns nil for blank values.
func (r *Reconciler) resolve(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, raw string, actor models.Actor, tally *rowTally) (*models.CatalogEntry, error) {
	if metadata.CleanName(raw) == "" {
		return nil, nil
	}
	entry, created, err := r.catalog.ResolveOrCreateTx(ctx, tx, kind, raw, actor)
	if err != nil {
		return nil, err
	}
	if created {
		tally.catalog++
	}
	return entry, nil
}

func (r *Reconciler) resolveEmployee(ctx context.Context, tx repository.Executor, name string, refs map[metadata.CatalogKind]*models.CatalogEntry, actor models.Actor, tally *rowTally) (*models.Employee, error) {
	role, area, company, city := refs[metadata.KindRole], refs[metadata.KindArea], refs[metadata.KindCompany], refs[metadata.KindCity]
	if role == nil || area == nil || company == nil {
		return nil, custom_error.NewValidationError("", reasonEmployeeIncomplete)
	}

	normalized := metadata.NormalizeName(name)
	employee, err := r.employees.FindEmployeeByKey(ctx, tx, normalized, role.ID, area.ID, company.ID)
	if err != nil {
		return nil, err
	}
	if employee != nil {
		return employee, nil
	}
	if city == nil {
		return nil, custom_error.NewValidationError("", reasonEmployeeIncomplete)
	}

	employee = &models.Employee{
		Name:           name,
		NormalizedName: normalized,
		RoleID:         role.ID,
		AreaID:         area.ID,
		CompanyID:      company.ID,
		CityID:         city.ID,
		Active:         true,
		CreatedByID:    actor.CreatedBy(),
	}
	if err := r.employees.InsertEmployee(ctx, tx, employee); err != nil {
		return nil, err
	}
	tally.employees++
	return employee, nil
}

// resolveAsset matches by serial when the row has one, otherwise by brand and
// reference, and creates the asset when nothing matches.
func (r *Reconciler) resolveAsset(ctx context.Context, tx repository.Executor, brand string, row Row, equipmentType *models.CatalogEntry, actor models.Actor, tally *rowTally) (*models.Asset, error) {
	reference := metadata.CleanName(row.Reference)
	serial := assets.NormalizeSerial(&row.Serial)

	var (
		asset *models.Asset
		err   error
	)
	if serial != nil {
		asset, err = r.assets.FindAssetBySerial(ctx, tx, *serial)
	} else {
		asset, err = r.assets.FindAssetByBrandReference(ctx, tx, metadata.NormalizeName(brand), metadata.NormalizeName(reference))
	}
	if err != nil {
		return nil, err
	}
	if asset != nil {
		return asset, nil
	}

	if equipmentType == nil {
		return nil, custom_error.NewValidationError("", reasonAssetIncomplete)
	}

	asset = &models.Asset{
		Brand:               brand,
		NormalizedBrand:     metadata.NormalizeName(brand),
		Reference:           reference,
		NormalizedReference: metadata.NormalizeName(reference),
		RAM:                 metadata.CleanName(row.RAM),
		Storage:             metadata.CleanName(row.Storage),
		Serial:              serial,
		EquipmentTypeID:     equipmentType.ID,
		Active:              true,
		CreatedByID:         actor.CreatedBy(),
	}
	if err := r.assets.InsertAsset(ctx, tx, asset); err != nil {
		return nil, err
	}
	tally.assets++
	return asset, nil
}

func newRowError(index int, row Row, err error) RowError {
	rowErr := RowError{RowIndex: index, Line: row.Line, Code: "internal", Reason: err.Error()}

	var (
		validation *custom_error.ValidationError
		conflict   *custom_error.ConflictError
		notFound   *custom_error.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		rowErr.Code = "validation"
	case errors.As(err, &conflict):
		rowErr.Code = "conflict"
	case errors.As(err, &notFound):
		rowErr.Code = "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rowErr.Code = "canceled"
	}
	return rowErr
}
