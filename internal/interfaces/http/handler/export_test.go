package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/application/export"
	"github.com/smokestack/backend/internal/domain/menu"
	"github.com/smokestack/backend/internal/domain/pos"
	"github.com/smokestack/backend/internal/interfaces/http/dto"
)

// MockSnapshotReader implements menu.SnapshotReader for testing
type MockSnapshotReader struct {
	mock.Mock
}

func (m *MockSnapshotReader) ReadSnapshot(ctx context.Context) (*menu.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Snapshot), args.Error(1)
}

func exportSnapshot() *menu.Snapshot {
	return &menu.Snapshot{
		Version:     "2026-08-01",
		LastUpdated: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Categories: []menu.Category{
			{ID: "cat-plates", Name: "Plates", SortOrder: 1},
		},
		Items: []menu.Item{
			{
				ID:         "item-brisket-plate",
				Name:       "Brisket Plate",
				Price:      decimal.RequireFromString("16.50"),
				CategoryID: "cat-plates",
				Available:  true,
			},
		},
	}
}

func setupExportRouter(reader *MockSnapshotReader, store *MockMappingStore, client *MockPOSClient, adminToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := export.NewService(reader, store, client, zap.NewNop())
	h := NewExportHandler(svc, adminToken, zap.NewNop())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postExport(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/export", nil)
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestExportHandlerRequiresAdminToken(t *testing.T) {
	reader := new(MockSnapshotReader)
	store := new(MockMappingStore)
	client := new(MockPOSClient)
	engine := setupExportRouter(reader, store, client, "admin-secret")

	t.Run("missing token", func(t *testing.T) {
		w := postExport(engine, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		w := postExport(engine, "guess")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured token disables the route", func(t *testing.T) {
		w := postExport(setupExportRouter(reader, store, client, ""), "anything")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	reader.AssertNotCalled(t, "ReadSnapshot", mock.Anything)
}

func TestExportHandlerRunsExport(t *testing.T) {
	reader := new(MockSnapshotReader)
	store := new(MockMappingStore)
	client := new(MockPOSClient)

	mapping, err := pos.NewIDMapping(pos.EnvironmentSandbox)
	require.NoError(t, err)

	reader.On("ReadSnapshot", mock.Anything).Return(exportSnapshot(), nil)
	store.On("Load", mock.Anything, pos.EnvironmentSandbox).Return(mapping, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	store.On("Ref", pos.EnvironmentSandbox).Return("sqlite://data/pos_mappings.db/pos_id_mappings?environment=sandbox")
	client.On("CreateCategory", mock.Anything, mock.Anything).Return("POS-CAT-1", nil)
	client.On("CreateItem", mock.Anything, mock.Anything).Return("POS-ITEM-1", nil)

	w := postExport(setupExportRouter(reader, store, client, "admin-secret"), "admin-secret")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "sandbox", data["environment"])
	assert.Equal(t, float64(1), data["created_categories"])
	assert.Equal(t, float64(1), data["created_items"])
}

func TestExportHandlerPreconditionFailure(t *testing.T) {
	reader := new(MockSnapshotReader)
	store := new(MockMappingStore)
	client := new(MockPOSClient)

	reader.On("ReadSnapshot", mock.Anything).Return(nil, menu.ErrSnapshotNotFound)

	w := postExport(setupExportRouter(reader, store, client, "admin-secret"), "admin-secret")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
}
