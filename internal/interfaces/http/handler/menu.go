package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smokestack/backend/internal/domain/menu"
)

// MenuHandler serves the locally authored menu catalog to storefront clients
type MenuHandler struct {
	BaseHandler
	reader menu.SnapshotReader
	log    *zap.Logger
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(reader menu.SnapshotReader, log *zap.Logger) *MenuHandler {
	return &MenuHandler{
		reader: reader,
		log:    log,
	}
}

// RegisterRoutes registers menu routes
func (h *MenuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu", h.Get)
}

// Get returns the current menu snapshot
func (h *MenuHandler) Get(c *gin.Context) {
	snapshot, err := h.reader.ReadSnapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, menu.ErrSnapshotNotFound) {
			h.NotFound(c, "menu is not published")
			return
		}
		h.log.Error("reading menu snapshot failed", zap.Error(err))
		h.InternalError(c, "failed to load menu")
		return
	}
	h.Success(c, snapshot)
}
