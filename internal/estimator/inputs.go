package estimator

import (
	"math"

	"github.com/langchou/evrange/internal/mix"
)

// 用户输入范围
const (
	MinTemperatureC       = 5.0
	MaxTemperatureC       = 45.0
	MinAdditionalWeightKg = 0.0
	MaxAdditionalWeightKg = 600.0
	MinAverageSpeedKmh    = 40.0
	MaxAverageSpeedKmh    = 120.0
)

// 基准场景：所有修正系数在此处等于 1
const (
	BaselineTemperatureC       = 40.0
	BaselineACOn               = true
	BaselineAdditionalWeightKg = 100.0
	BaselineAverageSpeedKmh    = 80.0
	DriverWeightKg             = 75.0
)

// Inputs 估算器的用户输入（每个估算视图一份）
type Inputs struct {
	TemperatureC       float64 `json:"temperature_c"`
	ACOn               bool    `json:"ac_on"`
	Mix                mix.Mix `json:"mix"`
	AdditionalWeightKg float64 `json:"additional_weight_kg"`
	AverageSpeedKmh    float64 `json:"average_speed_kmh"`
}

// DefaultInputs 默认输入即基准场景
func DefaultInputs() Inputs {
	return Inputs{
		TemperatureC:       BaselineTemperatureC,
		ACOn:               BaselineACOn,
		Mix:                mix.Default(),
		AdditionalWeightKg: BaselineAdditionalWeightKg,
		AverageSpeedKmh:    BaselineAverageSpeedKmh,
	}
}

// Clamp 将越界输入截断到最近的边界，并归一化路况比例
func (in Inputs) Clamp() Inputs {
	out := in
	out.TemperatureC = clamp(in.TemperatureC, MinTemperatureC, MaxTemperatureC)
	out.AdditionalWeightKg = clamp(in.AdditionalWeightKg, MinAdditionalWeightKg, MaxAdditionalWeightKg)
	out.AverageSpeedKmh = clamp(in.AverageSpeedKmh, MinAverageSpeedKmh, MaxAverageSpeedKmh)
	if !in.Mix.Valid() {
		out.Mix = mix.Normalize(float64(in.Mix.City), float64(in.Mix.State), float64(in.Mix.National))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
