package inventorytest

import (
	"context"
	"sort"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) GetByUsername(ctx context.Context, q repository.Executor, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.data.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetUser(ctx context.Context, q repository.Executor, id int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.data.users[id]
	if !ok {
		return nil, custom_error.NewNotFoundError("user", id)
	}
	return &user, nil
}

func (r *UserRepository) InsertUser(ctx context.Context, q repository.Executor, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.users {
		if existing.Username == user.Username {
			return custom_error.NewConflictError("user", existing.ID, "username %q is taken", user.Username)
		}
	}
	user.ID = r.s.nextID("users")
	user.CreatedAt = r.s.Now()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepository) SetUserActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.data.users[id]
	if !ok {
		return custom_error.NewNotFoundError("user", id)
	}
	user.Active = active
	r.s.data.users[id] = user
	return nil
}

func (r *UserRepository) ListUsers(ctx context.Context, q repository.Executor) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]models.User, 0, len(r.s.data.users))
	for _, user := range r.s.data.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// SeedUser stores an active user and returns the actor acting as it.
func (s *Store) SeedUser(username string, role roles.Role) models.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{
		ID:        s.nextID("users"),
		Username:  username,
		Fullname:  username,
		Role:      role,
		Active:    true,
		CreatedAt: s.Now(),
	}
	s.data.users[user.ID] = user
	return models.Actor{ID: user.ID, Username: user.Username}
}
