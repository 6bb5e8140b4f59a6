package mix

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
)

// 拖拽状态
const (
	DragIdle      = "idle"
	DragCapturing = "capturing"
)

// 拖拽事件（鼠标和触摸共用）
const (
	EventPress   = "press"
	EventRelease = "release"
	EventCancel  = "cancel"
)

var (
	// ErrAlreadyCapturing 同一时间只能拖拽一个分隔点
	ErrAlreadyCapturing = errors.New("a divider is already captured")
	// ErrInvalidDivider 分隔点索引只能是 0 或 1
	ErrInvalidDivider = errors.New("divider index must be 0 or 1")
)

// DragController 分隔点拖拽状态机 {idle, capturing(index)}
type DragController struct {
	mu    sync.Mutex
	fsm   *fsm.FSM
	index int
}

// NewDragController 创建拖拽状态机
func NewDragController() *DragController {
	d := &DragController{index: -1}

	d.fsm = fsm.NewFSM(
		DragIdle,
		fsm.Events{
			{Name: EventPress, Src: []string{DragIdle}, Dst: DragCapturing},
			{Name: EventRelease, Src: []string{DragCapturing}, Dst: DragIdle},
			{Name: EventCancel, Src: []string{DragCapturing}, Dst: DragIdle},
		},
		fsm.Callbacks{
			"enter_" + DragCapturing: func(_ context.Context, e *fsm.Event) {
				if len(e.Args) > 0 {
					if idx, ok := e.Args[0].(int); ok {
						d.index = idx
					}
				}
			},
			"enter_" + DragIdle: func(_ context.Context, e *fsm.Event) {
				d.index = -1
			},
		},
	)

	return d
}

// Press 按下分隔点，开始独占捕获
func (d *DragController) Press(index int) error {
	if index != 0 && index != 1 {
		return ErrInvalidDivider
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.fsm.Can(EventPress) {
		return fmt.Errorf("press divider %d: %w", index, ErrAlreadyCapturing)
	}
	if err := d.fsm.Event(context.Background(), EventPress, index); err != nil {
		return fmt.Errorf("trigger event %s: %w", EventPress, err)
	}
	return nil
}

// Move 拖动中：对被捕获的分隔点调用 SetDividerPosition。
// 未捕获时返回原值和 false。
func (d *DragController) Move(current Mix, raw float64) (Mix, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fsm.Current() != DragCapturing {
		return current, false
	}
	return current.SetDividerPosition(d.index, raw), true
}

// Release 松开（pointer up / touch end）
func (d *DragController) Release() {
	d.end(EventRelease)
}

// Cancel 取消捕获（pointer cancel、视图卸载、切换车型）
func (d *DragController) Cancel() {
	d.end(EventCancel)
}

func (d *DragController) end(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.fsm.Can(event) {
		return
	}
	// idle 以外的状态一定能转换，忽略错误
	_ = d.fsm.Event(context.Background(), event)
}

// Captured 返回当前捕获的分隔点
func (d *DragController) Captured() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fsm.Current() != DragCapturing {
		return -1, false
	}
	return d.index, true
}

// State 当前状态
func (d *DragController) State() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fsm.Current()
}
