package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store  repository.Transactor
	repo   Repository
	logger *zap.Logger
	cost   int
}

func NewService(store repository.Transactor, repo Repository, logger *zap.Logger) *UserService {
	return &UserService{
		store:  store,
		repo:   repo,
		logger: logger,
		cost:   bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost, tests use bcrypt.MinCost.
func (s *UserService) WithCost(cost int) *UserService {
	s.cost = cost
	return s
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, custom_error.NewValidationError("username", "must not be empty")
	}
	role := req.Role
	if role == "" {
		role = roles.User
	}
	if !role.IsValid() {
		return nil, custom_error.NewValidationError("role", "unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Fullname:     strings.TrimSpace(req.Fullname),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	err = s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		existing, err := s.repo.GetByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return custom_error.NewConflictError("user", existing.ID, "username %q is taken", username)
		}
		return s.repo.InsertUser(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.Int("user_id", user.ID), zap.String("username", user.Username), zap.String("role", role.String()))
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx, s.store.Executor())
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetUser(ctx, s.store.Executor(), id)
}

// Deactivate blocks further logins. The user stays referenced by its audit entries.
func (s *UserService) Deactivate(ctx context.Context, id int, actor models.Actor) error {
	if id == actor.ID {
		return custom_error.NewValidationError("id", "users cannot deactivate themselves")
	}
	if err := s.store.WithTransaction(ctx, func(tx repository.Executor) error {
		return s.repo.SetUserActive(ctx, tx, id, false)
	}); err != nil {
		return err
	}

	s.logger.Info("User deactivated", zap.Int("user_id", id), zap.Int("actor_id", actor.ID))
	return nil
}

// EnsureDefaultAdmin creates the configured admin account unless a user with that
// name already exists. It reports whether a user was created.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.repo.GetByUsername(ctx, s.store.Executor(), strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	_, err = s.Create(ctx, models.CreateUserRequest{
		Username: username,
		Password: password,
		Fullname: "Administrador",
		Role:     roles.Admin,
	})
	if custom_error.IsConflict(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ActorFor resolves an active user by name, for work started outside an HTTP request.
func (s *UserService) ActorFor(ctx context.Context, username string) (models.Actor, error) {
	user, err := s.repo.GetByUsername(ctx, s.store.Executor(), strings.TrimSpace(username))
	if err != nil {
		return models.Actor{}, err
	}
	if user == nil {
		return models.Actor{}, custom_error.NewNotFoundError("user", username)
	}
	if !user.Active {
		return models.Actor{}, custom_error.NewValidationError("username", "user %q is inactive", username)
	}
	return models.Actor{ID: user.ID, Username: user.Username}, nil
}
