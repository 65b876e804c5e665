package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type AssetRepository struct {
	s *Store
}

func (r *AssetRepository) GetAsset(ctx context.Context, q repository.Executor, id int) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	asset, ok := r.s.data.assets[id]
	if !ok {
		return nil, custom_error.NewNotFoundError("asset", id)
	}
	return &asset, nil
}

func (r *AssetRepository) FindAssetBySerial(ctx context.Context, q repository.Executor, serial string) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, asset := range r.s.data.assets {
		if asset.Serial != nil && *asset.Serial == serial {
			return &asset, nil
		}
	}
	return nil, nil
}

func (r *AssetRepository) FindAssetByBrandReference(ctx context.Context, q repository.Executor, normalizedBrand, normalizedReference string) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var match *models.Asset
	for _, asset := range r.s.data.assets {
		if asset.Serial != nil || asset.NormalizedBrand != normalizedBrand || asset.NormalizedReference != normalizedReference {
			continue
		}
		if match == nil || asset.ID < match.ID {
			match = &asset
		}
	}
	return match, nil
}

func (r *AssetRepository) InsertAsset(ctx context.Context, q repository.Executor, asset *models.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertAsset"); err != nil {
		return err
	}
	if err := r.s.checkSerial(0, asset.Serial); err != nil {
		return err
	}

	now := r.s.Now()
	asset.ID = r.s.nextID("assets")
	asset.CreatedAt = now
	asset.UpdatedAt = now
	r.s.data.assets[asset.ID] = *asset
	return nil
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, q repository.Executor, id int, changes *models.AssetChanges) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	asset, ok := r.s.data.assets[id]
	if !ok {
		return custom_error.NewNotFoundError("asset", id)
	}
	if changes.Serial != nil {
		if err := r.s.checkSerial(id, changes.Serial); err != nil {
			return err
		}
		asset.Serial = ptr(*changes.Serial)
		if *changes.Serial == "" {
			asset.Serial = nil
		}
	}
	if changes.Brand != nil {
		asset.Brand = *changes.Brand
		asset.NormalizedBrand = metadata.NormalizeName(*changes.Brand)
	}
	if changes.Reference != nil {
		asset.Reference = *changes.Reference
		asset.NormalizedReference = metadata.NormalizeName(*changes.Reference)
	}
	if changes.RAM != nil {
		asset.RAM = *changes.RAM
	}
	if changes.Storage != nil {
		asset.Storage = *changes.Storage
	}
	if changes.Notes != nil {
		asset.Notes = *changes.Notes
	}
	if changes.EquipmentTypeID != nil {
		asset.EquipmentTypeID = *changes.EquipmentTypeID
	}
	asset.UpdatedAt = r.s.Now()
	r.s.data.assets[id] = asset
	return nil
}

func (r *AssetRepository) SetAssetActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	asset, ok := r.s.data.assets[id]
	if !ok {
		return custom_error.NewNotFoundError("asset", id)
	}
	asset.Active = active
	asset.UpdatedAt = r.s.Now()
	r.s.data.assets[id] = asset
	return nil
}

func (r *AssetRepository) ListAssets(ctx context.Context, q repository.Executor, filter models.AssetFilter) ([]models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var assets []models.Asset
	for _, asset := range r.s.data.assets {
		if !filter.IncludeInactive && !asset.Active {
			continue
		}
		if filter.Serial != "" && asset.SerialValue() != filter.Serial {
			continue
		}
		if filter.EquipmentTypeID != nil && asset.EquipmentTypeID != *filter.EquipmentTypeID {
			continue
		}
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

// checkSerial must be called with mu held.
func (s *Store) checkSerial(id int, serial *string) error {
	if serial == nil || *serial == "" {
		return nil
	}
	for _, other := range s.data.assets {
		if other.ID != id && other.Serial != nil && *other.Serial == *serial {
			return custom_error.NewConflictError("asset", other.ID, "asset with serial %q already exists", *serial)
		}
	}
	return nil
}

// SeedAsset stores an active asset of the given equipment type.
func (s *Store) SeedAsset(brand, reference, serial string, equipmentType models.CatalogEntry) models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	asset := models.Asset{
		ID:                  s.nextID("assets"),
		Brand:               metadata.CleanName(brand),
		NormalizedBrand:     metadata.NormalizeName(brand),
		Reference:           metadata.CleanName(reference),
		NormalizedReference: metadata.NormalizeName(reference),
		EquipmentTypeID:     equipmentType.ID,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if serial != "" {
		asset.Serial = ptr(serial)
	}
	s.data.assets[asset.ID] = asset
	return asset
}

// AllAssets returns every stored asset ordered by id.
func (s *Store) AllAssets() []models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := make([]models.Asset, 0, len(s.data.assets))
	for _, asset := range s.data.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets
}
