// Package estimator 实际续航估算。
//
// 以车型的实测续航为基准，按温度、空调、路况、载重、车速五个修正系数计算
// 相对能耗，基准场景（40°C、空调开、20/15/65、+100kg、80km/h）下相对能耗恰好为 1。
package estimator

import (
	"math"

	"github.com/langchou/evrange/internal/mix"
	"github.com/langchou/evrange/internal/models"
)

// 模型常数
const (
	// 基准场景下空调占总能耗的比例
	hvacShare = 0.125
	// 基准温差 |40-22|
	hvacReferenceDeltaT = 18.0
	hvacNeutralTempC    = 22.0

	coldThresholdC    = 15.0
	coldPenaltyPerC   = 0.005
	minColdEfficiency = 0.5

	cityWeight     = 1.0
	stateWeight    = 1.25
	nationalWeight = 1.5

	// 滚动阻力对质量的敏感度
	rollingResistanceSensitivity = 0.35

	speedBaseEnergy = 0.0475
	speedDragCoeff  = 0.000010625
)

var baselineMixEnergy = mixEnergy(mix.Default())

// Factors 各修正系数（相对基准场景）
type Factors struct {
	TemperatureEfficiency float64 `json:"temperature_efficiency"`
	HVACEnergy            float64 `json:"hvac_energy"`
	MixFactor             float64 `json:"mix_factor"`
	WeightFactor          float64 `json:"weight_factor"`
	SpeedFactor           float64 `json:"speed_factor"`
	PropulsionEnergy      float64 `json:"propulsion_energy"`
	TotalEnergy           float64 `json:"total_energy"`
}

// TemperatureEfficiency 温度效率：15°C 以下每度损失 0.5%，最低 0.5；高温不降效
func TemperatureEfficiency(tempC float64) float64 {
	if tempC >= coldThresholdC {
		return 1.0
	}
	return math.Max(minColdEfficiency, 1.0-coldPenaltyPerC*(coldThresholdC-tempC))
}

// HVACEnergy 空调相对能耗。空调负荷按时间计，车速越低每公里占比越高
func HVACEnergy(tempC float64, acOn bool, speedKmh float64) float64 {
	if !acOn || speedKmh <= 0 {
		return 0
	}
	return (math.Abs(tempC-hvacNeutralTempC) / hvacReferenceDeltaT) * hvacShare * (BaselineAverageSpeedKmh / speedKmh)
}

// MixFactor 路况系数：市区 1.0，省道 1.25，国道 1.5
func MixFactor(m mix.Mix) float64 {
	return mixEnergy(m) / baselineMixEnergy
}

func mixEnergy(m mix.Mix) float64 {
	city, state, national := m.Fractions()
	return city*cityWeight + state*stateWeight + national*nationalWeight
}

// WeightFactor 载重系数，基准载重 100kg 时为 1
func WeightFactor(curbWeightKg, additionalKg float64) float64 {
	baseMass := curbWeightKg + DriverWeightKg + BaselineAdditionalWeightKg
	if baseMass <= 0 {
		return 1.0
	}
	newMass := curbWeightKg + DriverWeightKg + additionalKg
	return 1 + rollingResistanceSensitivity*(newMass/baseMass-1)
}

// SpeedFactor 车速系数，风阻主导的二次模型
func SpeedFactor(speedKmh float64) float64 {
	return energyPerKm(speedKmh) / energyPerKm(BaselineAverageSpeedKmh)
}

func energyPerKm(v float64) float64 {
	return speedBaseEnergy + speedDragCoeff*v*v
}

// Breakdown 计算全部修正系数。缺少或无效的整备质量按载重系数 1 处理
func Breakdown(profile models.RangeProfile, in Inputs) Factors {
	in = in.Clamp()

	f := Factors{
		TemperatureEfficiency: TemperatureEfficiency(in.TemperatureC),
		HVACEnergy:            HVACEnergy(in.TemperatureC, in.ACOn, in.AverageSpeedKmh),
		MixFactor:             MixFactor(in.Mix),
		WeightFactor:          1.0,
		SpeedFactor:           SpeedFactor(in.AverageSpeedKmh),
	}
	if profile.HasWeight() {
		f.WeightFactor = WeightFactor(*profile.WeightKg, in.AdditionalWeightKg)
	}

	f.PropulsionEnergy = (1 - hvacShare) * f.MixFactor * f.SpeedFactor * f.WeightFactor / f.TemperatureEfficiency
	f.TotalEnergy = f.PropulsionEnergy + f.HVACEnergy
	return f
}

// Estimate 估算续航（km，取整）。
// 缺少实测续航或整备质量（含非有限值）时返回 false，不给出数字。
func Estimate(profile models.RangeProfile, in Inputs) (int, bool) {
	if !profile.HasRange() || !profile.HasWeight() {
		return 0, false
	}

	f := Breakdown(profile, in)
	if f.TotalEnergy <= 0 || !finite(f.TotalEnergy) {
		return 0, false
	}

	km := math.Round(*profile.RealWorldRangeKm / f.TotalEnergy)
	if !finite(km) || km > math.MaxInt32 {
		return 0, false
	}
	return int(km), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Result 估算结果，每次输入变化都完整重算
type Result struct {
	EstimatedRangeKm  *int         `json:"estimated_range_km"`
	EfficiencyWhPerKm *float64     `json:"efficiency_wh_per_km"`
	Factors           Factors      `json:"factors"`
	Inputs            Inputs       `json:"inputs"`
	Dividers          mix.Dividers `json:"dividers"`
}

// Compute 计算完整结果
func Compute(profile models.RangeProfile, in Inputs) Result {
	in = in.Clamp()

	res := Result{
		Factors:  Breakdown(profile, in),
		Inputs:   in,
		Dividers: in.Mix.Dividers(),
	}

	km, ok := Estimate(profile, in)
	if !ok {
		return res
	}
	res.EstimatedRangeKm = &km

	// 可用电量仅用于能耗展示
	if profile.HasCapacity() && km > 0 {
		eff := math.Round(*profile.UsableBatteryCapacityKwh*1000/float64(km)*10) / 10
		res.EfficiencyWhPerKm = &eff
	}
	return res
}
