package mix

import (
	"fmt"
	"math"
)

// Segment 路况类型
type Segment string

const (
	SegmentCity     Segment = "city"     // 市区
	SegmentState    Segment = "state"    // 省道
	SegmentNational Segment = "national" // 国道/高速
)

// ParseSegment 解析路况类型
func ParseSegment(s string) (Segment, error) {
	switch Segment(s) {
	case SegmentCity, SegmentState, SegmentNational:
		return Segment(s), nil
	}
	return "", fmt.Errorf("unknown segment %q", s)
}

// Mix 三种路况的百分比，三者之和恒为 100
type Mix struct {
	City     int `json:"city"`
	State    int `json:"state"`
	National int `json:"national"`
}

// Default 基准场景 20/15/65
func Default() Mix {
	return Mix{City: 20, State: 15, National: 65}
}

// Total 三者之和
func (m Mix) Total() int {
	return m.City + m.State + m.National
}

// Valid 检查不变式
func (m Mix) Valid() bool {
	return m.City >= 0 && m.State >= 0 && m.National >= 0 && m.Total() == 100
}

// Fractions 转换为 0..1 的比例
func (m Mix) Fractions() (city, state, national float64) {
	return float64(m.City) / 100, float64(m.State) / 100, float64(m.National) / 100
}

func (m Mix) get(s Segment) int {
	switch s {
	case SegmentCity:
		return m.City
	case SegmentState:
		return m.State
	default:
		return m.National
	}
}

func (m *Mix) set(s Segment, v int) {
	switch s {
	case SegmentCity:
		m.City = v
	case SegmentState:
		m.State = v
	default:
		m.National = v
	}
}

// others 返回另外两个路况，按 city/state/national 顺序
func others(s Segment) (Segment, Segment) {
	switch s {
	case SegmentCity:
		return SegmentState, SegmentNational
	case SegmentState:
		return SegmentCity, SegmentNational
	default:
		return SegmentCity, SegmentState
	}
}

// AdjustProportionally 直接设置某一路况的百分比，另外两项按原有比例分配剩余部分。
// 后计算的一项吸收舍入误差，保证总和为 100。
// 另外两项原本都是 0 时，剩余部分全部给顺序靠后的一项。
func (m Mix) AdjustProportionally(changed Segment, value float64) Mix {
	v := clampPercent(value)
	first, last := others(changed)
	remainder := 100 - v

	out := m
	out.set(changed, v)

	a, b := m.get(first), m.get(last)
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a+b == 0 {
		out.set(first, 0)
		out.set(last, remainder)
		return out
	}

	firstValue := int(math.Round(float64(remainder) * float64(a) / float64(a+b)))
	out.set(first, firstValue)
	out.set(last, remainder-firstValue)
	return out
}

// Normalize 将任意三个数值缩放为总和 100 的整数百分比。
// national 吸收舍入误差；全部为 0 时返回 0/0/100。
func Normalize(city, state, national float64) Mix {
	city = nonNegative(city)
	state = nonNegative(state)
	national = nonNegative(national)

	total := city + state + national
	if total == 0 {
		return Mix{National: 100}
	}

	scale := 100 / total
	out := Mix{
		City:  int(math.Round(city * scale)),
		State: int(math.Round(state * scale)),
	}
	out.National = 100 - out.City - out.State

	// 两项同时向上取整可能让 national 变成 -1
	if out.National < 0 {
		deficit := -out.National
		if out.City >= out.State {
			out.City -= deficit
		} else {
			out.State -= deficit
		}
		out.National = 0
	}
	return out
}

// clampPercent 截断到 [0,100] 并四舍五入为整数
func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(math.Round(v))
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
