package cli

import (
	"fmt"
	"math"
	"strings"

	"stf-simulator/pkg/utils"
)

// FormatMoney formats a USD amount compactly above a million and in full
// below.
func FormatMoney(amount float64) string {
	return utils.FormatCompact(amount)
}

// FormatRate formats an exchange rate.
func FormatRate(rate float64) string {
	return utils.FormatRate(rate)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	return utils.FormatPercent(value)
}

// FormatRatio formats a hedge ratio to three decimals.
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.3f", ratio)
}

// FormatMultiple formats an actual/optimal multiple, "4.85x".
func FormatMultiple(m float64) string {
	return fmt.Sprintf("%.2fx", m)
}

// Bar renders value as a bar of at most width cells scaled against max.
func Bar(value, max float64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	cells := int(math.Round(value / max * float64(width)))
	if cells > width {
		cells = width
	}
	return strings.Repeat("#", cells)
}

// PadRight pads string to the right.
func PadRight(s string, length int) string {
	if visibleLen(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-visibleLen(s))
}

// sampleEvery returns the indices 0, step, 2·step, ... plus the last index.
func sampleEvery(n, step int) []int {
	if n <= 0 {
		return nil
	}
	if step < 1 {
		step = 1
	}
	var idx []int
	for i := 0; i < n; i += step {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}
