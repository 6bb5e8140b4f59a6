package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListVariants 获取车型列表
func (h *Handler) ListVariants(c *gin.Context) {
	variants, err := h.catalog.ListVariants(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "list variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  variants,
		"total": len(variants),
	})
}

// GetVariant 获取车型详情
func (h *Handler) GetVariant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.catalog.GetVariant(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "get variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// GetLongDistance 获取长途指标
// GET /api/variants/:id/long-distance
// 缺少实测续航时返回 422
func (h *Handler) GetLongDistance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	m, err := h.catalog.LongDistance(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "calculate long-distance rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": m})
}
