package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 车型目录
		api.GET("/variants", h.ListVariants)
		api.GET("/variants/:id", h.GetVariant)

		// 续航估算 / 长途评分
		api.POST("/variants/:id/estimate", h.Estimate)
		api.GET("/variants/:id/long-distance", h.GetLongDistance)

		// 对比（最多 3 款）
		api.POST("/compare", h.Compare)
	}

	// 实时估算会话
	r.GET("/ws/estimator/:id", h.HandleEstimatorSession)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
