package models

import (
	"math"
	"time"
)

// Variant 车型版本（目录中的一条记录）
type Variant struct {
	ID               int64  `json:"id" db:"id" yaml:"id"`
	ModelID          int64  `json:"model_id" db:"model_id" yaml:"model_id"`
	ManufacturerName string `json:"manufacturer" db:"manufacturer_name" yaml:"manufacturer"`
	ModelName        string `json:"model" db:"model_name" yaml:"model"`
	Name             string `json:"name" db:"name" yaml:"name"`

	// 续航 / 充电参数，均可为空
	RealWorldRangeKm         *float64 `json:"real_world_range_km" db:"real_world_range_km" yaml:"real_world_range_km"`
	WeightKg                 *float64 `json:"weight_kg" db:"weight_kg" yaml:"weight_kg"`
	UsableBatteryCapacityKwh *float64 `json:"usable_battery_capacity_kwh" db:"usable_battery_capacity_kwh" yaml:"usable_battery_capacity_kwh"`
	FastChargingTimeMin      *float64 `json:"fast_charging_time_min" db:"fast_charging_time_min" yaml:"fast_charging_time_min"` // 10%→80%

	Price     *int64    `json:"price,omitempty" db:"price" yaml:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" yaml:"-"`
}

// DisplayName 展示名称
func (v *Variant) DisplayName() string {
	name := v.ManufacturerName
	if v.ModelName != "" {
		name += " " + v.ModelName
	}
	if v.Name != "" {
		name += " " + v.Name
	}
	return name
}

// Profile 提取续航计算所需的只读参数
func (v *Variant) Profile() RangeProfile {
	return RangeProfile{
		RealWorldRangeKm:         v.RealWorldRangeKm,
		WeightKg:                 v.WeightKg,
		UsableBatteryCapacityKwh: v.UsableBatteryCapacityKwh,
		FastChargingTimeMin:      v.FastChargingTimeMin,
	}
}

// RangeProfile 续航估算与长途评分的输入
// nil 表示数据缺失
type RangeProfile struct {
	RealWorldRangeKm         *float64 `json:"real_world_range_km"`
	WeightKg                 *float64 `json:"weight_kg"`
	UsableBatteryCapacityKwh *float64 `json:"usable_battery_capacity_kwh"`
	FastChargingTimeMin      *float64 `json:"fast_charging_time_min"`
}

// HasRange 是否有可用的基准续航
func (p RangeProfile) HasRange() bool {
	return positive(p.RealWorldRangeKm)
}

// HasWeight 是否有可用的整备质量
func (p RangeProfile) HasWeight() bool {
	return positive(p.WeightKg)
}

// HasCapacity 是否有可用的电池容量
func (p RangeProfile) HasCapacity() bool {
	return positive(p.UsableBatteryCapacityKwh)
}

// CanFastCharge 快充时间和可用电量均为有限正数
func (p RangeProfile) CanFastCharge() bool {
	return positive(p.FastChargingTimeMin) && p.HasCapacity()
}

// positive 非空、有限且大于 0
func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0)
}

// Float64 返回指针，方便构造可空字段
func Float64(v float64) *float64 {
	return &v
}
