package rating

import (
	"fmt"
	"math"
)

// FormatDuration 小时数格式化为 "2h 15min"，省略为零的部分；零时长为 "0min"
func FormatDuration(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) {
		return "0min"
	}

	total := int(math.Round(hours * 60))
	h, m := total/60, total%60

	switch {
	case h == 0:
		return fmt.Sprintf("%dmin", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dmin", h, m)
	}
}
