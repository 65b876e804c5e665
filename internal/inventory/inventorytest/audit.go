package inventorytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type AuditRepository struct {
	s *Store
}

func (r *AuditRepository) InsertEntry(ctx context.Context, q repository.Executor, entry *models.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertAuditEntry"); err != nil {
		return err
	}

	data := entry.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry data: %w", err)
	}

	entry.ID = r.s.nextID("audit_entries")
	entry.DataRaw = raw
	r.s.data.audit[entry.ID] = *entry
	return nil
}

func (r *AuditRepository) AttachAssignment(ctx context.Context, q repository.Executor, entryID int, assignmentID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry, ok := r.s.data.audit[entryID]
	if !ok || entry.AssignmentID != nil {
		return fmt.Errorf("audit entry %d is missing or already attached", entryID)
	}
	entry.AssignmentID = ptr(assignmentID)
	r.s.data.audit[entryID] = entry
	return nil
}

func (r *AuditRepository) ListEntries(ctx context.Context, q repository.Executor, filter models.AuditFilter) ([]models.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []models.AuditEntry
	for _, entry := range r.s.data.audit {
		if filter.AssignmentID != nil && (entry.AssignmentID == nil || *entry.AssignmentID != *filter.AssignmentID) {
			continue
		}
		if filter.EmployeeID != nil && entry.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.AssetID != nil && entry.AssetID != *filter.AssetID {
			continue
		}
		entry.Data = nil
		entry.LoadFromDB()
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.After(entries[j].OccurredAt)
		}
		return entries[i].ID < entries[j].ID
	})
	if filter.Limit > 0 && uint(len(entries)) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

// AuditEntries returns every stored entry in insertion order.
func (s *Store) AuditEntries() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.AuditEntry, 0, len(s.data.audit))
	for _, entry := range s.data.audit {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}
