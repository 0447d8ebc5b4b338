package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/application/export"
	"github.com/smokestack/backend/internal/interfaces/http/middleware"
)

// ExportHandler triggers catalog synchronization to the POS
type ExportHandler struct {
	BaseHandler
	service    *export.Service
	adminToken string
	log        *zap.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(service *export.Service, adminToken string, log *zap.Logger) *ExportHandler {
	return &ExportHandler{
		service:    service,
		adminToken: adminToken,
		log:        log,
	}
}

// RegisterRoutes registers admin export routes
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AdminAuth(h.adminToken))
	admin.POST("/catalog/export", h.Export)
}

// Export runs one catalog synchronization pass and returns its result. The
// result reports partial failure per entity; only a precondition failure
// (missing or invalid snapshot, unreadable mapping) is an error response.
func (h *ExportHandler) Export(c *gin.Context) {
	result, err := h.service.ExportCatalog(c.Request.Context())
	if err != nil {
		h.log.Error("catalog export aborted", zap.Error(err))
		h.InternalError(c, err.Error())
		return
	}
	h.Success(c, result)
}
