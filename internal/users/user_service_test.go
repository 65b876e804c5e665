package users

import (
	"context"
	"testing"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/inventory/inventorytest"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*UserService, *inventorytest.Store) {
	store := inventorytest.NewStore()
	return NewService(store, store.Users(), zap.NewNop()).WithCost(bcrypt.MinCost), store
}

func TestCreateUser(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	user, err := service.Create(ctx, models.CreateUserRequest{Username: " jperez ", Password: "secreto1", Fullname: "Juan Pérez"})
	require.NoError(t, err)
	assert.Equal(t, "jperez", user.Username)
	assert.Equal(t, roles.User, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secreto1", user.PasswordHash)

	authenticated, err := security.AuthenticateUser(ctx, "jperez", "secreto1", store, store.Users())
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)

	_, err = service.Create(ctx, models.CreateUserRequest{Username: "jperez", Password: "otra-clave"})
	var conflict *custom_error.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, user.ID, conflict.ExistingID)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), models.CreateUserRequest{Username: "ana", Password: "secreto1", Role: "moderator"})
	assert.True(t, custom_error.IsValidation(err))
}

func TestDeactivateBlocksLogin(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()
	admin := store.SeedUser("admin", roles.Admin)

	user, err := service.Create(ctx, models.CreateUserRequest{Username: "ana", Password: "secreto1"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, user.ID, admin))
	_, err = security.AuthenticateUser(ctx, "ana", "secreto1", store, store.Users())
	assert.ErrorIs(t, err, security.ErrInvalidCredentials)

	assert.True(t, custom_error.IsValidation(service.Deactivate(ctx, admin.ID, admin)))
	assert.True(t, custom_error.IsNotFound(service.Deactivate(ctx, 999, admin)))
}

func TestEnsureDefaultAdmin(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	created, err := service.EnsureDefaultAdmin(ctx, "admin", "cambiar-esta-clave")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.EnsureDefaultAdmin(ctx, "admin", "otra-clave")
	require.NoError(t, err)
	assert.False(t, created)

	users, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, roles.Admin, users[0].Role)

	_, err = security.AuthenticateUser(ctx, "admin", "cambiar-esta-clave", store, store.Users())
	assert.NoError(t, err)
}

func TestActorFor(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()
	admin := store.SeedUser("admin", roles.Admin)

	actor, err := service.ActorFor(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin, actor)

	_, err = service.ActorFor(ctx, "nadie")
	assert.True(t, custom_error.IsNotFound(err))

	require.NoError(t, store.Users().SetUserActive(ctx, nil, admin.ID, false))
	_, err = service.ActorFor(ctx, "admin")
	assert.True(t, custom_error.IsValidation(err))
}
