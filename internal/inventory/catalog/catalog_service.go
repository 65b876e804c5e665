package catalog

import (
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"go.uber.org/zap"
)

// Resolver owns the reference catalogs (companies, areas, roles, cities and
// equipment types) and turns free-text names into stable entry ids.
type Resolver struct {
	store  repository.Transactor
	repo   Repository
	logger *zap.Logger
}

func NewResolver(store repository.Transactor, repo Repository, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// ResolveOrCreate returns the entry of kind whose normalized name matches rawName,
// creating it when missing. Names differing only in case or whitespace resolve
// to the same entry.
func (r *Resolver) ResolveOrCreate(ctx context.Context, kind metadata.CatalogKind, rawName string, actor models.Actor) (*models.CatalogEntry, error) {
	var entry *models.CatalogEntry
	err := r.store.WithTransaction(ctx, func(tx repository.Executor) error {
		var err error
		entry, _, err = r.ResolveOrCreateTx(ctx, tx, kind, rawName, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ResolveOrCreateTx is ResolveOrCreate inside the caller's transaction. created
// reports whether a new entry was inserted. Inactive entries are reactivated.
func (r *Resolver) ResolveOrCreateTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, rawName string, actor models.Actor) (entry *models.CatalogEntry, created bool, err error) {
	if !kind.IsValid() {
		return nil, false, custom_error.NewValidationError("kind", "unknown catalog kind %q", kind)
	}

	name := metadata.CleanName(rawName)
	if name == "" {
		return nil, false, custom_error.NewValidationError(string(kind), "name must not be empty")
	}
	normalized := metadata.NormalizeName(name)

	existing, err := r.repo.FindByNormalizedName(ctx, tx, kind, normalized)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if !existing.Active {
			if err := r.repo.SetActive(ctx, tx, existing.ID, true); err != nil {
				return nil, false, err
			}
			existing.Active = true
			r.logger.Info("Catalog entry reactivated",
				zap.String("kind", string(kind)),
				zap.Int("id", existing.ID),
				zap.String("name", existing.Name),
			)
		}
		return existing, false, nil
	}

	entry = &models.CatalogEntry{
		Kind:           kind,
		Name:           name,
		NormalizedName: normalized,
		Active:         true,
		CreatedByID:    actor.CreatedBy(),
	}
	if err := r.repo.InsertEntry(ctx, tx, entry); err != nil {
		return nil, false, err
	}

	r.logger.Info("Catalog entry created",
		zap.String("kind", string(kind)),
		zap.Int("id", entry.ID),
		zap.String("name", entry.Name),
	)

	return entry, true, nil
}

// ResolveRefTx resolves a reference given either by id or by name. Id references
// must point at an active entry of the same kind.
func (r *Resolver) ResolveRefTx(ctx context.Context, tx repository.Executor, kind metadata.CatalogKind, ref models.CatalogRef, actor models.Actor) (*models.CatalogEntry, error) {
	if ref.ID == nil {
		entry, _, err := r.ResolveOrCreateTx(ctx, tx, kind, ref.Name, actor)
		return entry, err
	}

	entry, err := r.repo.GetEntry(ctx, tx, *ref.ID)
	if err != nil {
		return nil, err
	}
	if entry.Kind != kind {
		return nil, custom_error.NewValidationError(string(kind), "entry %d is a %s, not a %s", entry.ID, entry.Kind, kind)
	}
	if !entry.Active {
		return nil, custom_error.NewValidationError(string(kind), "%s %q is inactive", kind, entry.Name)
	}

	return entry, nil
}

// Create inserts a new entry and fails when the normalized name is already taken.
func (r *Resolver) Create(ctx context.Context, kind metadata.CatalogKind, rawName string, actor models.Actor) (*models.CatalogEntry, error) {
	if !kind.IsValid() {
		return nil, custom_error.NewValidationError("kind", "unknown catalog kind %q", kind)
	}
	name := metadata.CleanName(rawName)
	if name == "" {
		return nil, custom_error.NewValidationError("name", "must not be empty")
	}

	var entry *models.CatalogEntry
	err := r.store.WithTransaction(ctx, func(tx repository.Executor) error {
		existing, err := r.repo.FindByNormalizedName(ctx, tx, kind, metadata.NormalizeName(name))
		if err != nil {
			return err
		}
		if existing != nil {
			return custom_error.NewConflictError(string(kind), existing.ID, "%s %q already exists", kind, existing.Name)
		}

		entry, _, err = r.ResolveOrCreateTx(ctx, tx, kind, name, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *Resolver) Get(ctx context.Context, kind metadata.CatalogKind, id int) (*models.CatalogEntry, error) {
	entry, err := r.repo.GetEntry(ctx, r.store.Executor(), id)
	if err != nil {
		return nil, err
	}
	if entry.Kind != kind {
		return nil, custom_error.NewNotFoundError(string(kind), id)
	}
	return entry, nil
}

func (r *Resolver) List(ctx context.Context, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error) {
	if !kind.IsValid() {
		return nil, custom_error.NewValidationError("kind", "unknown catalog kind %q", kind)
	}
	return r.repo.ListEntries(ctx, r.store.Executor(), kind, includeInactive)
}

// Rename changes the display name. The new normalized name must not belong to
// another entry of the same kind.
func (r *Resolver) Rename(ctx context.Context, kind metadata.CatalogKind, id int, rawName string) (*models.CatalogEntry, error) {
	name := metadata.CleanName(rawName)
	if name == "" {
		return nil, custom_error.NewValidationError("name", "must not be empty")
	}
	normalized := metadata.NormalizeName(name)

	var entry *models.CatalogEntry
	err := r.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := r.repo.GetEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Kind != kind {
			return custom_error.NewNotFoundError(string(kind), id)
		}

		other, err := r.repo.FindByNormalizedName(ctx, tx, kind, normalized)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return custom_error.NewConflictError(string(kind), other.ID, "%s %q already exists", kind, other.Name)
		}

		if err := r.repo.RenameEntry(ctx, tx, id, name, normalized); err != nil {
			return err
		}
		current.Name = name
		current.NormalizedName = normalized
		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// SetActive toggles an entry. Deactivated entries stay referenced by existing
// rows and are reactivated when a name lookup hits them again.
func (r *Resolver) SetActive(ctx context.Context, kind metadata.CatalogKind, id int, active bool) error {
	return r.store.WithTransaction(ctx, func(tx repository.Executor) error {
		current, err := r.repo.GetEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Kind != kind {
			return custom_error.NewNotFoundError(string(kind), id)
		}
		if current.Active == active {
			return nil
		}

		if err := r.repo.SetActive(ctx, tx, id, active); err != nil {
			return err
		}
		r.logger.Info("Catalog entry status changed",
			zap.String("kind", string(kind)),
			zap.Int("id", id),
			zap.Bool("is_active", active),
		)
		return nil
	})
}
