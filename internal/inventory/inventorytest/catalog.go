package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type CatalogRepository struct {
	s *Store
}

func (r *CatalogRepository) FindByNormalizedName(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, normalizedName string) (*models.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("FindByNormalizedName"); err != nil {
		return nil, err
	}

	for _, entry := range r.s.data.catalog {
		if entry.Kind == kind && entry.NormalizedName == normalizedName {
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepository) GetEntry(ctx context.Context, q repository.Executor, id int) (*models.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.data.catalog[id]
	if !ok {
		return nil, custom_error.NewNotFoundError("catalog entry", id)
	}
	return &entry, nil
}

func (r *CatalogRepository) InsertEntry(ctx context.Context, q repository.Executor, entry *models.CatalogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertEntry"); err != nil {
		return err
	}

	for _, existing := range r.s.data.catalog {
		if existing.Kind == entry.Kind && existing.NormalizedName == entry.NormalizedName {
			return custom_error.NewConflictError(string(entry.Kind), 0, "%s %q already exists", entry.Kind, entry.Name)
		}
	}

	now := r.s.Now()
	entry.ID = r.s.nextID("catalog_entries")
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.s.data.catalog[entry.ID] = *entry
	return nil
}

func (r *CatalogRepository) RenameEntry(ctx context.Context, q repository.Executor, id int, name, normalizedName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.data.catalog[id]
	if !ok {
		return custom_error.NewNotFoundError("catalog entry", id)
	}
	for _, other := range r.s.data.catalog {
		if other.ID != id && other.Kind == entry.Kind && other.NormalizedName == normalizedName {
			return custom_error.NewConflictError(string(entry.Kind), 0, "catalog entry named %q already exists", name)
		}
	}

	entry.Name = name
	entry.NormalizedName = normalizedName
	entry.UpdatedAt = r.s.Now()
	r.s.data.catalog[id] = entry
	return nil
}

func (r *CatalogRepository) SetActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.data.catalog[id]
	if !ok {
		return custom_error.NewNotFoundError("catalog entry", id)
	}
	entry.Active = active
	entry.UpdatedAt = r.s.Now()
	r.s.data.catalog[id] = entry
	return nil
}

func (r *CatalogRepository) ListEntries(ctx context.Context, q repository.Executor, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []models.CatalogEntry
	for _, entry := range r.s.data.catalog {
		if entry.Kind != kind || (!includeInactive && !entry.Active) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// SeedCatalogEntry stores an active entry and returns it.
func (s *Store) SeedCatalogEntry(kind metadata.CatalogKind, name string) models.CatalogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	entry := models.CatalogEntry{
		ID:             s.nextID("catalog_entries"),
		Kind:           kind,
		Name:           metadata.CleanName(name),
		NormalizedName: metadata.NormalizeName(name),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.data.catalog[entry.ID] = entry
	return entry
}

// CatalogEntries returns every entry of kind ordered by id.
func (s *Store) CatalogEntries(kind metadata.CatalogKind) []models.CatalogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []models.CatalogEntry
	for _, entry := range s.data.catalog {
		if entry.Kind == kind {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// catalogName must be called with mu held.
func (s *Store) catalogName(id int) string {
	return s.data.catalog[id].Name
}
