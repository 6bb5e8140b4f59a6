// Package rating 长途能力评分：一次快充能跑多远，以及对应的 0-5 星评分。
package rating

import (
	"math"

	"github.com/langchou/evrange/internal/models"
)

const (
	// 100% → 10% 可用续航比例
	firstLegUsableShare = 0.9
	// 经验常数：快充时间（10%→80%）换算为第二段续航
	secondLegChargeConstant = 10.5

	avgHighwaySpeedKmh   = 70.0
	chargingStopDuration = 0.25 // 小时

	starFloorKm   = 200.0
	starCeilingKm = 700.0
	kmPerStar     = 125.0
	maxStars      = 5.0
)

// Metrics 长途指标
type Metrics struct {
	Leg1DistanceKm   float64 `json:"leg1_distance_km"`
	Leg2DistanceKm   float64 `json:"leg2_distance_km"`
	OneStopRangeKm   float64 `json:"one_stop_range_km"`
	StarRating       float64 `json:"star_rating"`
	Leg1Duration     float64 `json:"leg1_duration_h"`
	Leg2Duration     float64 `json:"leg2_duration_h"`
	ChargingStop     float64 `json:"charging_stop_h"`
	TotalDuration    float64 `json:"total_duration_h"`
	Leg1DurationStr  string  `json:"leg1_duration"`
	Leg2DurationStr  string  `json:"leg2_duration"`
	ChargingStopStr  string  `json:"charging_stop_duration"`
	TotalDurationStr string  `json:"total_duration"`
	CanFastCharge    bool    `json:"can_fast_charge"`
	AverageSpeedKmh  float64 `json:"average_speed_kmh"`
}

// Calculate 计算长途指标；缺少实测续航时返回 false（数据不足）。
// 快充数据缺失只影响第二段和充电停留。
func Calculate(profile models.RangeProfile) (*Metrics, bool) {
	if !profile.HasRange() {
		return nil, false
	}
	rangeKm := *profile.RealWorldRangeKm
	canFastCharge := profile.CanFastCharge()

	m := &Metrics{
		CanFastCharge:   canFastCharge,
		AverageSpeedKmh: avgHighwaySpeedKmh,
	}

	m.Leg1DistanceKm = round1(rangeKm * firstLegUsableShare)
	if canFastCharge {
		m.Leg2DistanceKm = round1(secondLegChargeConstant * rangeKm / *profile.FastChargingTimeMin)
		m.ChargingStop = chargingStopDuration
	}
	m.OneStopRangeKm = round1(m.Leg1DistanceKm + m.Leg2DistanceKm)
	m.StarRating = StarRating(m.OneStopRangeKm)

	m.Leg1Duration = m.Leg1DistanceKm / avgHighwaySpeedKmh
	m.Leg2Duration = m.Leg2DistanceKm / avgHighwaySpeedKmh
	m.TotalDuration = m.Leg1Duration + m.ChargingStop + m.Leg2Duration

	m.Leg1DurationStr = FormatDuration(m.Leg1Duration)
	m.Leg2DurationStr = FormatDuration(m.Leg2Duration)
	m.ChargingStopStr = FormatDuration(m.ChargingStop)
	m.TotalDurationStr = FormatDuration(m.TotalDuration)

	return m, true
}

// StarRating 分段线性评分：
// <200km 为 0 星，200km 起每 125km 一星，≥700km 为 5 星，结果按 0.5 取整
func StarRating(oneStopKm float64) float64 {
	if oneStopKm < starFloorKm {
		return 0
	}
	if oneStopKm >= starCeilingKm {
		return maxStars
	}
	raw := 1 + (oneStopKm-starFloorKm)/kmPerStar
	return math.Round(raw*2) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
