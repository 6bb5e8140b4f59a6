package mix

// Dividers 滑块上两个分隔点的位置（0..100）
// city = D0, state = D1 - D0, national = 100 - D1
type Dividers struct {
	D0 int `json:"d0"`
	D1 int `json:"d1"`
}

// Dividers 由百分比计算分隔点
func (m Mix) Dividers() Dividers {
	return Dividers{D0: m.City, D1: m.City + m.State}
}

// Mix 由分隔点计算百分比
func (d Dividers) Mix() Mix {
	return Mix{
		City:     d.D0,
		State:    d.D1 - d.D0,
		National: 100 - d.D1,
	}
}

// SetDividerPosition 移动一个分隔点，不允许越过另一个分隔点。
// raw 先截断到 [0,100] 并取整；未知的 which 不做任何修改。
func (d Dividers) SetDividerPosition(which int, raw float64) Dividers {
	pos := clampPercent(raw)
	switch which {
	case 0:
		d.D0 = min(pos, d.D1)
	case 1:
		d.D1 = max(pos, d.D0)
	}
	return d
}

// SetDividerPosition 在百分比上移动分隔点
func (m Mix) SetDividerPosition(which int, raw float64) Mix {
	return m.Dividers().SetDividerPosition(which, raw).Mix()
}

// PercentFromPointer 将指针/触摸的横坐标换算为容器宽度上的百分比
func PercentFromPointer(x, left, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return float64(clampPercent((x - left) / width * 100))
}
