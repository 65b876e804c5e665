package users

import (
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const userTable = "users"

type Repository interface {
	GetByUsername(ctx context.Context, q repository.Executor, username string) (*models.User, error)
	GetUser(ctx context.Context, q repository.Executor, id int) (*models.User, error)
	InsertUser(ctx context.Context, q repository.Executor, user *models.User) error
	SetUserActive(ctx context.Context, q repository.Executor, id int, active bool) error
	ListUsers(ctx context.Context, q repository.Executor) ([]models.User, error)
}

type UserRepository struct{}

func NewRepository() *UserRepository {
	return &UserRepository{}
}

var userColumns = []interface{}{"id", "username", "full_name", "password_hash", "role", "is_active", "created_at"}

// GetByUsername returns nil without an error when no user has that name.
func (r *UserRepository) GetByUsername(ctx context.Context, q repository.Executor, username string) (*models.User, error) {
	var user models.User
	found, err := q.From(userTable).
		Select(userColumns...).
		Where(goqu.Ex{"username": username}).
		Executor().
		ScanStructContext(ctx, &user)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get user")
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, q repository.Executor, id int) (*models.User, error) {
	var user models.User
	found, err := q.From(userTable).
		Select(userColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &user)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to get user")
	}
	if !found {
		return nil, custom_error.NewNotFoundError("user", id)
	}

	return &user, nil
}

func (r *UserRepository) InsertUser(ctx context.Context, q repository.Executor, user *models.User) error {
	query := q.Insert(userTable).
		Rows(goqu.Record{
			"username":      user.Username,
			"full_name":     user.Fullname,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"is_active":     user.Active,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStructContext(ctx, user); err != nil {
		return custom_error.FromDB(err, "failed to insert user")
	}

	return nil
}

func (r *UserRepository) SetUserActive(ctx context.Context, q repository.Executor, id int, active bool) error {
	result, err := q.Update(userTable).
		Set(goqu.Record{"is_active": active}).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.FromDB(err, "failed to update user")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return custom_error.NewNotFoundError("user", id)
	}

	return nil
}

func (r *UserRepository) ListUsers(ctx context.Context, q repository.Executor) ([]models.User, error) {
	var users []models.User
	err := q.From(userTable).
		Select(userColumns...).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanStructsContext(ctx, &users)
	if err != nil {
		return nil, custom_error.FromDB(err, "failed to list users")
	}

	return users, nil
}
