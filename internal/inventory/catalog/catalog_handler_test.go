package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/metadata"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, kind metadata.CatalogKind, rawName string, actor models.Actor) (*models.CatalogEntry, error) {
	args := m.Called(kind, rawName, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, kind metadata.CatalogKind, id int) (*models.CatalogEntry, error) {
	args := m.Called(kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

func (m *MockService) List(ctx context.Context, kind metadata.CatalogKind, includeInactive bool) ([]models.CatalogEntry, error) {
	args := m.Called(kind, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CatalogEntry), args.Error(1)
}

func (m *MockService) Rename(ctx context.Context, kind metadata.CatalogKind, id int, rawName string) (*models.CatalogEntry, error) {
	args := m.Called(kind, id, rawName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntry), args.Error(1)
}

func (m *MockService) SetActive(ctx context.Context, kind metadata.CatalogKind, id int, active bool) error {
	args := m.Called(kind, id, active)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", 1)
	c.Set("role", "admin")
	return c, w
}

func TestCreateEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		kind           string
		payload        interface{}
		setupMock      func(m *MockService)
		expectedStatus int
	}{
		{
			name:    "created",
			kind:    "areas",
			payload: models.CatalogEntryRequest{Name: "Sistemas"},
			setupMock: func(m *MockService) {
				m.On("Create", metadata.KindArea, "Sistemas", models.Actor{ID: 1}).
					Return(&models.CatalogEntry{ID: 5, Kind: metadata.KindArea, Name: "Sistemas", Active: true}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "duplicate",
			kind:    "area",
			payload: models.CatalogEntryRequest{Name: "Sistemas"},
			setupMock: func(m *MockService) {
				m.On("Create", metadata.KindArea, "Sistemas", models.Actor{ID: 1}).
					Return(nil, custom_error.NewConflictError("area", 5, "area %q already exists", "Sistemas"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown kind",
			kind:           "planets",
			payload:        models.CatalogEntryRequest{Name: "Mars"},
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			kind:           "cities",
			payload:        map[string]string{},
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := NewHandler(service, zap.NewNop())

			c, w := setupTestContext()
			body, _ := json.Marshal(tt.payload)
			c.Request, _ = http.NewRequest(http.MethodPost, "/catalogs/"+tt.kind, bytes.NewBuffer(body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = gin.Params{{Key: "kind", Value: tt.kind}}

			handler.CreateEntry(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestListEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := new(MockService)
	service.On("List", metadata.KindEquipmentType, true).
		Return([]models.CatalogEntry{{ID: 1, Kind: metadata.KindEquipmentType, Name: "Portátil"}}, nil)
	handler := NewHandler(service, zap.NewNop())

	c, w := setupTestContext()
	c.Request, _ = http.NewRequest(http.MethodGet, "/catalogs/equipment-types?include_inactive=true", nil)
	c.Params = gin.Params{{Key: "kind", Value: "equipment-types"}}

	handler.ListEntries(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var entries []models.CatalogEntry
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
	service.AssertExpectations(t)
}

func TestDeactivateEntryNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := new(MockService)
	service.On("SetActive", metadata.KindCity, 9, false).Return(custom_error.NewNotFoundError("city", 9))
	handler := NewHandler(service, zap.NewNop())

	c, w := setupTestContext()
	c.Request, _ = http.NewRequest(http.MethodPatch, "/catalogs/cities/9/deactivate", nil)
	c.Params = gin.Params{{Key: "kind", Value: "cities"}, {Key: "id", Value: "9"}}

	handler.setActive(false)(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	service.AssertExpectations(t)
}
