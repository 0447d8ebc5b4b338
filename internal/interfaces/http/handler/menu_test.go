package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/domain/menu"
	"github.com/smokestack/backend/internal/interfaces/http/dto"
)

func setupMenuRouter(reader *MockSnapshotReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewMenuHandler(reader, zap.NewNop()).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func getMenu(engine *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestMenuHandlerGet(t *testing.T) {
	reader := new(MockSnapshotReader)
	reader.On("ReadSnapshot", mock.Anything).Return(exportSnapshot(), nil)

	w := getMenu(setupMenuRouter(reader))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "2026-08-01", data["version"])
}

func TestMenuHandlerNotPublished(t *testing.T) {
	reader := new(MockSnapshotReader)
	reader.On("ReadSnapshot", mock.Anything).Return(nil, menu.ErrSnapshotNotFound)

	w := getMenu(setupMenuRouter(reader))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuHandlerReadFailure(t *testing.T) {
	reader := new(MockSnapshotReader)
	reader.On("ReadSnapshot", mock.Anything).Return(nil, assert.AnError)

	w := getMenu(setupMenuRouter(reader))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
