// Package inventorytest provides an in-memory implementation of the inventory
// repositories. Transactions are serialized and roll back by restoring a snapshot,
// which is enough to exercise the engine's atomicity and uniqueness rules in tests.
package inventorytest

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
)

type bindingKey struct {
	employeeID int
	assetID    int
}

type state struct {
	catalog     map[int]models.CatalogEntry
	employees   map[int]models.Employee
	assets      map[int]models.Asset
	bindings    map[bindingKey]models.AssetBinding
	assignments map[int]models.Assignment
	audit       map[int]models.AuditEntry
	users       map[int]models.User
}

func (s state) clone() state {
	return state{
		catalog:     maps.Clone(s.catalog),
		employees:   maps.Clone(s.employees),
		assets:      maps.Clone(s.assets),
		bindings:    maps.Clone(s.bindings),
		assignments: maps.Clone(s.assignments),
		audit:       maps.Clone(s.audit),
		users:       maps.Clone(s.users),
	}
}

type Store struct {
	txMu sync.Mutex

	mu       sync.Mutex
	data     state
	seq      map[string]int
	failures map[string]error
	commits  int

	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: state{
			catalog:     map[int]models.CatalogEntry{},
			employees:   map[int]models.Employee{},
			assets:      map[int]models.Asset{},
			bindings:    map[bindingKey]models.AssetBinding{},
			assignments: map[int]models.Assignment{},
			audit:       map[int]models.AuditEntry{},
			users:       map[int]models.User{},
		},
		seq:      map[string]int{},
		failures: map[string]error{},
		Now:      time.Now,
	}
}

func (s *Store) Executor() repository.Executor {
	return nil
}

// WithTransaction runs fn while holding the store exclusively. The state is
// restored when fn returns an error or panics.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx repository.Executor) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
			return
		}
		s.mu.Lock()
		s.commits++
		s.mu.Unlock()
	}()

	return fn(nil)
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
}

// Commits counts successful transactions.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// FailOn makes the next call of op return err. Op names match the repository method.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail must be called with mu held.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// nextID must be called with mu held.
func (s *Store) nextID(table string) int {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{s: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{s: s}
}

func (s *Store) Assets() *AssetRepository {
	return &AssetRepository{s: s}
}

func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{s: s}
}

func (s *Store) Assignments() *AssignmentRepository {
	return &AssignmentRepository{s: s}
}

func (s *Store) Audit() *AuditRepository {
	return &AuditRepository{s: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Projections() *ProjectionRepository {
	return &ProjectionRepository{s: s}
}

func ptr[T any](v T) *T {
	return &v
}
