package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/evrange/internal/metrics"
	"github.com/langchou/evrange/internal/repository"
	"github.com/langchou/evrange/internal/service"
	"github.com/langchou/evrange/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger   *zap.Logger
	catalog  *service.CatalogService
	metrics  *metrics.Metrics
	wsHub    *ws.Hub
	upgrader websocket.Upgrader
}

// NewHandler 创建处理器
// allowedOrigin 为 "*" 时允许所有来源的 WebSocket 连接
func NewHandler(
	logger *zap.Logger,
	catalog *service.CatalogService,
	m *metrics.Metrics,
	wsHub *ws.Hub,
	allowedOrigin string,
) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalog,
		metrics: m,
		wsHub:   wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// parseID 解析路径中的 ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID"})
		return 0, false
	}
	return id, true
}

// respondError 将业务错误映射为 HTTP 响应
func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
	case errors.Is(err, service.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient data"})
	case errors.Is(err, service.ErrNoVehicles), errors.Is(err, service.ErrTooManyVehicles):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to "+action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
