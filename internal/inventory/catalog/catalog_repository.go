package catalog

import (
	"context"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const catalogTable = "catalog_entries"

type Repository interface {
	FindByNormalizedName(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, normalizedName string) (*models.CatalogEntry, error)
	GetEntry(ctx context.Context, q repository.Executor, id int) (*models.CatalogEntry, error)
	InsertEntry(ctx context.Context, q repository.Executor, entry *models.CatalogEntry) error
	RenameEntry(ctx context.Context, q repository.Executor, id int, name, normalizedName string) error
	SetActive(ctx context.Context, q repository.Executor, id int, active bool) error
	ListEntries(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error)
}

type CatalogRepository struct{}

func NewRepository() *CatalogRepository {
	return &CatalogRepository{}
}

var entryColumns = []interface{}{
	"id", "kind", "name", "normalized_name", "is_active", "created_by_id", "created_at", "updated_at",
}

func (r *CatalogRepository) FindByNormalizedName(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, normalizedName string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	found, err := q.From(catalogTable).
		Select(entryColumns...).
		Where(goqu.Ex{
			"kind":            string(kind),
			"normalized_name": normalizedName,
		}).
		Executor().
		ScanStructContext(ctx, &entry)
	if err != nil {
		return nil, custom_error.FromDB(err, fmt.Sprintf("failed to look up %s %q", kind, normalizedName))
	}
	if !found {
		return nil, nil
	}

	return &entry, nil
}

func (r *CatalogRepository) GetEntry(ctx context.Context, q repository.Executor, id int) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	found, err := q.From(catalogTable).
		Select(entryColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &entry)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get catalog entry")
	}
	if !found {
		return nil, custom_error.NewNotFoundError("catalog entry", id)
	}

	return &entry, nil
}

func (r *CatalogRepository) InsertEntry(ctx context.Context, q repository.Executor, entry *models.CatalogEntry) error {
	query := q.Insert(catalogTable).
		Rows(goqu.Record{
			"kind":            string(entry.Kind),
			"name":            entry.Name,
			"normalized_name": entry.NormalizedName,
			"is_active":       entry.Active,
			"created_by_id":   repository.Nullable(entry.CreatedByID),
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStructContext(ctx, entry); err != nil {
		return custom_error.FromDB(err, fmt.Sprintf("%s %q already exists", entry.Kind, entry.Name))
	}

	return nil
}

func (r *CatalogRepository) RenameEntry(ctx context.Context, q repository.Executor, id int, name, normalizedName string) error {
	result, err := q.Update(catalogTable).
		Set(goqu.Record{
			"name":            name,
			"normalized_name": normalizedName,
			"updated_at":      goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, fmt.Sprintf("catalog entry named %q already exists", name))
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *CatalogRepository) SetActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	result, err := q.Update(catalogTable).
		Set(goqu.Record{
			"is_active":  active,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update catalog entry")
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *CatalogRepository) ListEntries(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error) {
	conditions := repository.NewQueryBuilder()
	conditions.AddCondition("kind", string(kind))
	if !includeInactive {
		conditions.AddCondition("is_active", true)
	}

	var entries []models.CatalogEntry
	err := q.From(catalogTable).
		Select(entryColumns...).
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &entries)
	if err != nil {
		return nil, custom_error.FromDB(err, "error executing SQL statement")
	}

	return entries, nil
}

func expectOneRow(rowsAffected func() (int64, error), id int) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return custom_error.NewNotFoundError("catalog entry", id)
	}
	return nil
}
