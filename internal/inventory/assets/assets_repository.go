package assets

import (
	"context"
	"fmt"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const assetTable = "assets"

type Repository interface {
	GetAsset(ctx context.Context, q repository.Executor, id int) (*models.Asset, error)
	FindAssetBySerial(ctx context.Context, q repository.Executor, serial string) (*models.Asset, error)
	FindAssetByBrandReference(ctx context.Context, q repository.Executor, normalizedBrand, normalizedReference string) (*models.Asset, error)
	InsertAsset(ctx context.Context, q repository.Executor, asset *models.Asset) error
	UpdateAsset(ctx context.Context, q repository.Executor, id int, changes *models.AssetChanges) error
	SetAssetActive(ctx context.Context, q repository.Executor, id int, active bool) error
	ListAssets(ctx context.Context, q repository.Executor, filter models.AssetFilter) ([]models.Asset, error)
}

type AssetsRepository struct{}

func NewRepository() *AssetsRepository {
	return &AssetsRepository{}
}

var assetColumns = []interface{}{
	"id", "brand", "normalized_brand", "reference", "normalized_reference", "ram", "storage",
	"serial", "notes", "equipment_type_id", "is_active", "created_by_id", "created_at", "updated_at",
}

func (r *AssetsRepository) GetAsset(ctx context.Context, q repository.Executor, id int) (*models.Asset, error) {
	asset, err := r.fetchAssetByCondition(ctx, q, goqu.Ex{"id": id})
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, custom_error.NewNotFoundError("asset", id)
	}
	return asset, nil
}

func (r *AssetsRepository) FindAssetBySerial(ctx context.Context, q repository.Executor, serial string) (*models.Asset, error) {
	return r.fetchAssetByCondition(ctx, q, goqu.Ex{"serial": serial})
}

// FindAssetByBrandReference only considers assets without a serial; a serial
// identifies its asset on its own.
func (r *AssetsRepository) FindAssetByBrandReference(ctx context.Context, q repository.Executor, normalizedBrand, normalizedReference string) (*models.Asset, error) {
	return r.fetchAssetByCondition(ctx, q, goqu.Ex{
		"normalized_brand":     normalizedBrand,
		"normalized_reference": normalizedReference,
		"serial":               nil,
	})
}

// fetchAssetByCondition returns the oldest matching asset, or nil when none matches.
func (r *AssetsRepository) fetchAssetByCondition(ctx context.Context, q repository.Executor, condition goqu.Ex) (*models.Asset, error) {
	var asset models.Asset
	found, err := q.From(assetTable).
		Select(assetColumns...).
		Where(condition).
		Order(goqu.I("id").Asc()).
		Limit(1).
		Executor().
		ScanStructContext(ctx, &asset)
	if err != nil {
		return nil, custom_error.FromDB(err, "unable to select asset from database")
	}
	if !found {
		return nil, nil
	}

	return &asset, nil
}

func (r *AssetsRepository) InsertAsset(ctx context.Context, q repository.Executor, asset *models.Asset) error {
	query := q.Insert(assetTable).
		Rows(goqu.Record{
			"brand":                asset.Brand,
			"normalized_brand":     asset.NormalizedBrand,
			"reference":            asset.Reference,
			"normalized_reference": asset.NormalizedReference,
			"ram":                  asset.RAM,
			"storage":              asset.Storage,
			"serial":               repository.Nullable(asset.Serial),
			"notes":                asset.Notes,
			"equipment_type_id":    asset.EquipmentTypeID,
			"is_active":            asset.Active,
			"created_by_id":        repository.Nullable(asset.CreatedByID),
		}).
		Returning("id", "created_at", "updated_at")

	if _, err := query.Executor().ScanStructContext(ctx, asset); err != nil {
		return custom_error.FromDB(err, fmt.Sprintf("asset with serial %q already exists", asset.SerialValue()))
	}

	return nil
}

func (r *AssetsRepository) UpdateAsset(ctx context.Context, q repository.Executor, id int, changes *models.AssetChanges) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.Brand != nil {
		record["brand"] = *changes.Brand
		record["normalized_brand"] = metadata.NormalizeName(*changes.Brand)
	}
	if changes.Reference != nil {
		record["reference"] = *changes.Reference
		record["normalized_reference"] = metadata.NormalizeName(*changes.Reference)
	}
	if changes.RAM != nil {
		record["ram"] = *changes.RAM
	}
	if changes.Storage != nil {
		record["storage"] = *changes.Storage
	}
	if changes.Serial != nil {
		if *changes.Serial == "" {
			record["serial"] = nil
		} else {
			record["serial"] = *changes.Serial
		}
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}
	if changes.EquipmentTypeID != nil {
		record["equipment_type_id"] = *changes.EquipmentTypeID
	}

	result, err := q.Update(assetTable).
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "asset serial already registered")
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *AssetsRepository) SetAssetActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	result, err := q.Update(assetTable).
		Set(goqu.Record{
			"is_active":  active,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update asset")
	}

	return expectOneRow(result.RowsAffected, id)
}

func (r *AssetsRepository) ListAssets(ctx context.Context, q repository.Executor, filter models.AssetFilter) ([]models.Asset, error) {
	conditions := repository.NewQueryBuilder()
	if !filter.IncludeInactive {
		conditions.AddCondition("is_active", true)
	}
	if filter.Serial != "" {
		conditions.AddCondition("serial", filter.Serial)
	}
	conditions.AddOptional("equipment_type_id", filter.EquipmentTypeID)

	var assets []models.Asset
	err := q.From(assetTable).
		Select(assetColumns...).
		Where(conditions.BuildConditions(nil)).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &assets)
	if err != nil {
		return nil, custom_error.FromDB(err, "unable to select assets from database")
	}

	return assets, nil
}

func expectOneRow(rowsAffected func() (int64, error), id int) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return custom_error.NewNotFoundError("asset", id)
	}
	return nil
}
