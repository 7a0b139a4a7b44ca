// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	million = decimal.NewFromInt(1_000_000)
	billion = decimal.NewFromInt(1_000_000_000)
)

// RoundCents rounds a currency amount half away from zero to two decimals.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatUSD formats an amount as US dollars with thousands separators,
// e.g. "$1,234,567.89" or "-$12.00".
func FormatUSD(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	str := d.Abs().StringFixed(2)
	parts := strings.Split(str, ".")

	result := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatMillions formats an amount in millions, "$15.00M".
func FormatMillions(amount float64) string {
	d := decimal.NewFromFloat(amount).Div(million)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2) + "M"
	}
	return "$" + d.StringFixed(2) + "M"
}

// FormatBillions formats an amount in billions, "$2.13B".
func FormatBillions(amount float64) string {
	d := decimal.NewFromFloat(amount).Div(billion)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2) + "B"
	}
	return "$" + d.StringFixed(2) + "B"
}

// FormatCompact picks the largest unit that keeps the amount readable.
func FormatCompact(amount float64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return FormatBillions(amount)
	case abs >= 1_000_000:
		return FormatMillions(amount)
	}
	return FormatUSD(amount)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatRate formats an exchange rate to four decimals.
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(4)
}
