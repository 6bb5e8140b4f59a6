package estimator

import (
	"sync"

	"github.com/langchou/evrange/internal/mix"
	"github.com/langchou/evrange/internal/models"
)

// Session 一个估算视图的输入状态。
// 每次修改都同步重算并回调 onChange；切换车型时丢弃输入。
type Session struct {
	mu       sync.Mutex
	profile  models.RangeProfile
	inputs   Inputs
	drag     *mix.DragController
	onChange func(Result)
}

// NewSession 选中车型时创建，输入为基准场景
func NewSession(profile models.RangeProfile, onChange func(Result)) *Session {
	return &Session{
		profile:  profile,
		inputs:   DefaultInputs(),
		drag:     mix.NewDragController(),
		onChange: onChange,
	}
}

// Result 当前结果
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compute(s.profile, s.inputs)
}

// Inputs 当前输入
func (s *Session) Inputs() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// update 修改输入并重算，回调在锁外执行
func (s *Session) update(mutate func(in *Inputs)) Result {
	s.mu.Lock()
	mutate(&s.inputs)
	s.inputs = s.inputs.Clamp()
	res := Compute(s.profile, s.inputs)
	s.mu.Unlock()

	s.notify(res)
	return res
}

func (s *Session) notify(res Result) {
	if s.onChange != nil {
		s.onChange(res)
	}
}

// SetTemperature 设置环境温度
func (s *Session) SetTemperature(tempC float64) Result {
	return s.update(func(in *Inputs) { in.TemperatureC = tempC })
}

// SetACOn 开关空调
func (s *Session) SetACOn(on bool) Result {
	return s.update(func(in *Inputs) { in.ACOn = on })
}

// SetAdditionalWeight 设置额外载重
func (s *Session) SetAdditionalWeight(kg float64) Result {
	return s.update(func(in *Inputs) { in.AdditionalWeightKg = kg })
}

// SetAverageSpeed 设置平均车速
func (s *Session) SetAverageSpeed(kmh float64) Result {
	return s.update(func(in *Inputs) { in.AverageSpeedKmh = kmh })
}

// SetDividerPosition 直接设置分隔点位置
func (s *Session) SetDividerPosition(which int, percent float64) Result {
	return s.update(func(in *Inputs) { in.Mix = in.Mix.SetDividerPosition(which, percent) })
}

// AdjustMixProportionally 单独设置一种路况，其余两项按比例分配
func (s *Session) AdjustMixProportionally(segment mix.Segment, value float64) Result {
	return s.update(func(in *Inputs) { in.Mix = in.Mix.AdjustProportionally(segment, value) })
}

// SetMix 设置三项路况，总和不为 100 时按比例归一化
func (s *Session) SetMix(city, state, national float64) Result {
	return s.update(func(in *Inputs) { in.Mix = mix.Normalize(city, state, national) })
}

// BeginDrag 按下分隔点
func (s *Session) BeginDrag(which int) error {
	return s.drag.Press(which)
}

// DragTo 拖动被捕获的分隔点；未在拖拽时返回 false 且不回调
func (s *Session) DragTo(percent float64) (Result, bool) {
	s.mu.Lock()
	next, moved := s.drag.Move(s.inputs.Mix, percent)
	if !moved {
		res := Compute(s.profile, s.inputs)
		s.mu.Unlock()
		return res, false
	}
	s.inputs.Mix = next
	res := Compute(s.profile, s.inputs)
	s.mu.Unlock()

	s.notify(res)
	return res, true
}

// EndDrag 松开分隔点
func (s *Session) EndDrag() {
	s.drag.Release()
}

// CancelDrag 取消拖拽
func (s *Session) CancelDrag() {
	s.drag.Cancel()
}

// Dragging 当前捕获的分隔点
func (s *Session) Dragging() (int, bool) {
	return s.drag.Captured()
}

// SelectVehicle 切换车型：释放拖拽，输入恢复为基准场景
func (s *Session) SelectVehicle(profile models.RangeProfile) Result {
	s.mu.Lock()
	// 持锁释放拖拽，DragTo 无法在释放和重置之间修改旧输入
	s.drag.Cancel()
	s.profile = profile
	s.inputs = DefaultInputs()
	res := Compute(s.profile, s.inputs)
	s.mu.Unlock()

	s.notify(res)
	return res
}

// Reset 输入恢复为基准场景
func (s *Session) Reset() Result {
	return s.update(func(in *Inputs) { *in = DefaultInputs() })
}

// Close 视图卸载时释放拖拽
func (s *Session) Close() {
	s.drag.Cancel()
}
