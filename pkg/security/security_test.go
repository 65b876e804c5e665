package security

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/rate_limiter"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByUsername(ctx context.Context, q repository.Executor, username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type noopStore struct{}

func (noopStore) Executor() repository.Executor { return nil }

func (noopStore) WithTransaction(ctx context.Context, fn func(tx repository.Executor) error) error {
	return fn(nil)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateJWT(&models.User{ID: 7, Username: "ana", Role: roles.Admin})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, roles.Admin, claims.Role)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateJWT(&models.User{ID: 7, Username: "ana", Role: roles.User})
	require.NoError(t, err)

	other := NewTokenIssuer("other-secret", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTMiddlewareAndAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("secret", time.Hour)

	router := gin.New()
	router.Use(JWTMiddleware(issuer))
	router.GET("/admin", Authorize(roles.Admin), func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "username": actor.Username})
	})

	adminToken, _ := issuer.GenerateJWT(&models.User{ID: 1, Username: "root", Role: roles.Admin})
	userToken, _ := issuer.GenerateJWT(&models.User{ID: 2, Username: "ana", Role: roles.User})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "insufficient role", header: "Bearer " + userToken, expectedStatus: http.StatusForbidden},
		{name: "admin allowed", header: "Bearer " + adminToken, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestActorFromContextWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := ActorFromContext(c)
	assert.ErrorIs(t, err, ErrNoActor)
}

func TestLoginHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	activeUser := &models.User{ID: 3, Username: "ana", PasswordHash: string(hash), Role: roles.User, Active: true}
	inactiveUser := &models.User{ID: 4, Username: "old", PasswordHash: string(hash), Role: roles.User, Active: false}

	tests := []struct {
		name           string
		username       string
		password       string
		setupMock      func(m *MockUserFinder)
		expectedStatus int
	}{
		{
			name:     "valid credentials",
			username: "ana",
			password: "s3cret!",
			setupMock: func(m *MockUserFinder) {
				m.On("GetByUsername", "ana").Return(activeUser, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "wrong password",
			username: "ana",
			password: "nope",
			setupMock: func(m *MockUserFinder) {
				m.On("GetByUsername", "ana").Return(activeUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "inactive user",
			username: "old",
			password: "s3cret!",
			setupMock: func(m *MockUserFinder) {
				m.On("GetByUsername", "old").Return(inactiveUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "s3cret!",
			setupMock: func(m *MockUserFinder) {
				m.On("GetByUsername", "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(MockUserFinder)
			tt.setupMock(finder)
			handler := NewLoginHandler(noopStore{}, finder, NewTokenIssuer("secret", time.Hour), rate_limiter.NewRateLimiter(10, time.Minute), zap.NewNop())

			router := gin.New()
			handler.RegisterRoutes(router)

			body, _ := json.Marshal(map[string]string{"username": tt.username, "password": tt.password})
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/auth", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["token"])
			}
			finder.AssertExpectations(t)
		})
	}
}

func TestLoginHandlerRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	finder := new(MockUserFinder)
	finder.On("GetByUsername", "ana").Return(nil, nil)
	handler := NewLoginHandler(noopStore{}, finder, NewTokenIssuer("secret", time.Hour), rate_limiter.NewRateLimiter(1, time.Minute), zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router)

	send := func() int {
		body, _ := json.Marshal(map[string]string{"username": "ana", "password": "x"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "8.8.8.8")
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestLoginHandlerSuccessResetsAttempts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	finder := new(MockUserFinder)
	finder.On("GetByUsername", "ana").Return(&models.User{ID: 3, Username: "ana", PasswordHash: string(hash), Role: roles.User, Active: true}, nil)
	handler := NewLoginHandler(noopStore{}, finder, NewTokenIssuer("secret", time.Hour), rate_limiter.NewRateLimiter(1, time.Minute), zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router)

	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(map[string]string{"username": "ana", "password": "s3cret!"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "9.9.9.9")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
