package assets

import (
	"context"
	"strings"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

type CatalogResolver interface {
	ResolveRefTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, ref models.CatalogRef, actor models.Actor) (*models.CatalogEntry, error)
}

type AssetService struct {
	store   repository.Transactor
	repo    Repository
	catalog CatalogResolver
	logger  *zap.Logger
}

func NewAssetService(store repository.Transactor, repo Repository, catalog CatalogResolver, logger *zap.Logger) *AssetService {
	return &AssetService{
		store:   store,
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// NormalizeSerial trims a serial number. Blank serials are stored as NULL.
func NormalizeSerial(serial *string) *string {
	if serial == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*serial)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *AssetService) Create(ctx context.Context, req models.CreateAssetRequest, actor models.Actor) (*models.Asset, error) {
	brand := metadata.CleanName(req.Brand)
	if brand == "" {
		return nil, custom_error.NewValidationError("brand", "must not be empty")
	}
	if req.EquipmentType.IsZero() {
		return nil, custom_error.NewValidationError("equipment_type", "is required")
	}
	reference := metadata.CleanName(req.Reference)
	serial := NormalizeSerial(req.Serial)

	var asset *models.Asset
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		if err := s.ensureSerialFree(ctx, tx, 0, serial); err != nil {
			return err
		}

		equipmentType, err := s.catalog.ResolveRefTx(ctx, tx, metadata.KindEquipmentType, req.EquipmentType, actor)
		if err != nil {
			return err
		}

		asset = &models.Asset{
			Brand:               brand,
			NormalizedBrand:     metadata.NormalizeName(brand),
			Reference:           reference,
			NormalizedReference: metadata.NormalizeName(reference),
			RAM:                 strings.TrimSpace(req.RAM),
			Storage:             strings.TrimSpace(req.Storage),
			Serial:              serial,
			Notes:               strings.TrimSpace(req.Notes),
			EquipmentTypeID:     equipmentType.ID,
			Active:              true,
			CreatedByID:         actor.CreatedBy(),
		}
		return s.repo.InsertAsset(ctx, tx, asset)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Asset created",
		zap.Int("id", asset.ID),
		zap.String("brand", asset.Brand),
		zap.String("serial", asset.SerialValue()),
	)
	return asset, nil
}

func (s *AssetService) Get(ctx context.Context, id int) (*models.Asset, error) {
	return s.repo.GetAsset(ctx, s.store.Executor(), id)
}

func (s *AssetService) List(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error) {
	return s.repo.ListAssets(ctx, s.store.Executor(), filter)
}

// Update applies the whitelisted changes in req. Setting serial to an empty
// string clears it.
func (s *AssetService) Update(ctx context.Context, id int, req models.UpdateAssetRequest, actor models.Actor) (*models.Asset, error) {
	var asset *models.Asset
	err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetAsset(ctx, tx, id)
		if err != nil {
			return err
		}

		changes := &models.AssetChanges{}
		if req.Brand != nil {
			brand := metadata.CleanName(*req.Brand)
			if brand == "" {
				return custom_error.NewValidationError("brand", "must not be empty")
			}
			if brand != current.Brand {
				changes.Brand = &brand
			}
		}
		if req.Reference != nil {
			if reference := metadata.CleanName(*req.Reference); reference != current.Reference {
				changes.Reference = &reference
			}
		}
		setIfChanged(&changes.RAM, req.RAM, current.RAM)
		setIfChanged(&changes.Storage, req.Storage, current.Storage)
		setIfChanged(&changes.Notes, req.Notes, current.Notes)
		if req.Serial != nil {
			serial := NormalizeSerial(req.Serial)
			if serial == nil && current.Serial != nil {
				empty := ""
				changes.Serial = &empty
			} else if serial != nil && *serial != current.SerialValue() {
				if err := s.ensureSerialFree(ctx, tx, id, serial); err != nil {
					return err
				}
				changes.Serial = serial
			}
		}
		if req.EquipmentType != nil && !req.EquipmentType.IsZero() {
			equipmentType, err := s.catalog.ResolveRefTx(ctx, tx, metadata.KindEquipmentType, *req.EquipmentType, actor)
			if err != nil {
				return err
			}
			if equipmentType.ID != current.EquipmentTypeID {
				changes.EquipmentTypeID = &equipmentType.ID
			}
		}

		if !changes.HasChanges() {
			asset = current
			return nil
		}
		if err := s.repo.UpdateAsset(ctx, tx, id, changes); err != nil {
			return err
		}

		asset, err = s.repo.GetAsset(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// Deactivate soft deletes the asset.
func (s *AssetService) Deactivate(ctx context.Context, id int) error {
	return s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := s.repo.GetAsset(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.Active {
			return nil
		}

		if err := s.repo.SetAssetActive(ctx, tx, id, false); err != nil {
			return err
		}
		s.logger.Info("Asset deactivated", zap.Int("id", id))
		return nil
	})
}

func (s *AssetService) ensureSerialFree(ctx context.Context, tx repository.Executor, id int, serial *string) error {
	if serial == nil {
		return nil
	}
	existing, err := s.repo.FindAssetBySerial(ctx, tx, *serial)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return custom_error.NewConflictError("asset", existing.ID, "asset with serial %q already exists", *serial)
	}
	return nil
}

func setIfChanged(target **string, value *string, current string) {
	if value == nil {
		return
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed != current {
		*target = &trimmed
	}
}
