package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/mix"
)

// mixRequest 路况占比，总和不为 100 时按比例归一化
type mixRequest struct {
	City     float64 `json:"city"`
	State    float64 `json:"state"`
	National float64 `json:"national"`
}

// inputsRequest 估算输入，未提供的字段使用基准场景
type inputsRequest struct {
	TemperatureC       *float64    `json:"temperature_c"`
	ACOn               *bool       `json:"ac_on"`
	Mix                *mixRequest `json:"mix"`
	AdditionalWeightKg *float64    `json:"additional_weight_kg"`
	AverageSpeedKmh    *float64    `json:"average_speed_kmh"`
}

// toInputs 合并到基准场景并限制到合法范围
func (r *inputsRequest) toInputs() estimator.Inputs {
	in := estimator.DefaultInputs()
	if r == nil {
		return in
	}
	if r.TemperatureC != nil {
		in.TemperatureC = *r.TemperatureC
	}
	if r.ACOn != nil {
		in.ACOn = *r.ACOn
	}
	if r.Mix != nil {
		in.Mix = mix.Normalize(r.Mix.City, r.Mix.State, r.Mix.National)
	}
	if r.AdditionalWeightKg != nil {
		in.AdditionalWeightKg = *r.AdditionalWeightKg
	}
	if r.AverageSpeedKmh != nil {
		in.AverageSpeedKmh = *r.AverageSpeedKmh
	}
	return in.Clamp()
}

// compareRequest 对比请求
type compareRequest struct {
	VariantIDs []int64        `json:"variant_ids"`
	Inputs     *inputsRequest `json:"inputs"`
}

// bindJSON 解析请求体，空请求体视为全部默认
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// Estimate 在给定条件下估算续航
// POST /api/variants/:id/estimate
func (h *Handler) Estimate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req inputsRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.catalog.Estimate(c.Request.Context(), id, req.toInputs())
	if err != nil {
		h.respondError(c, err, "estimate range")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

// Compare 对比多款车型
// POST /api/compare
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.catalog.Compare(c.Request.Context(), req.VariantIDs, req.Inputs.toInputs())
	if err != nil {
		h.respondError(c, err, "compare variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  out,
		"total": len(out),
	})
}
