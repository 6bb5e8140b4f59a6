package mix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragControllerLifecycle(t *testing.T) {
	d := NewDragController()
	assert.Equal(t, DragIdle, d.State())

	// 未捕获时移动无效
	m, moved := d.Move(Default(), 50)
	assert.False(t, moved)
	assert.Equal(t, Default(), m)

	require.NoError(t, d.Press(0))
	idx, ok := d.Captured()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	m, moved = d.Move(Default(), 50)
	assert.True(t, moved)
	assert.Equal(t, Mix{City: 35, State: 0, National: 65}, m)

	m, _ = d.Move(m, 12)
	assert.Equal(t, Mix{City: 12, State: 23, National: 65}, m)

	d.Release()
	assert.Equal(t, DragIdle, d.State())
	_, ok = d.Captured()
	assert.False(t, ok)

	_, moved = d.Move(m, 90)
	assert.False(t, moved)
}

func TestDragControllerExclusiveCapture(t *testing.T) {
	d := NewDragController()
	require.NoError(t, d.Press(1))

	err := d.Press(0)
	assert.ErrorIs(t, err, ErrAlreadyCapturing)

	idx, _ := d.Captured()
	assert.Equal(t, 1, idx)

	d.Cancel()
	assert.Equal(t, DragIdle, d.State())
	require.NoError(t, d.Press(0))
}

func TestDragControllerInvalidIndex(t *testing.T) {
	d := NewDragController()
	assert.ErrorIs(t, d.Press(2), ErrInvalidDivider)
	assert.ErrorIs(t, d.Press(-1), ErrInvalidDivider)
	assert.Equal(t, DragIdle, d.State())
}

func TestDragControllerReleaseWhenIdle(t *testing.T) {
	d := NewDragController()
	d.Release()
	d.Cancel()
	assert.Equal(t, DragIdle, d.State())
}

func TestDragControllerSecondDivider(t *testing.T) {
	d := NewDragController()
	require.NoError(t, d.Press(1))

	m := Default()
	for _, raw := range []float64{40, 55.4, 10, 101} {
		m, _ = d.Move(m, raw)
		require.True(t, m.Valid())
	}
	assert.Equal(t, Mix{City: 20, State: 80, National: 0}, m)
}
