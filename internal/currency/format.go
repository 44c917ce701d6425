package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders amount with the currency symbol, thousands separators and
// two decimals: $1,234.50.
func (c Currency) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return c.Symbol + "-"
	}
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + c.Symbol + groupThousands(intPart) + "." + frac
}

// FormatPrice renders a token price. Amounts below one keep four
// significant digits, so $0.00004213 does not collapse to $0.00.
func (c Currency) FormatPrice(amount float64) string {
	abs := math.Abs(amount)
	if abs >= 1 || abs == 0 || math.IsNaN(abs) {
		return c.Format(amount)
	}
	places := int32(-math.Floor(math.Log10(abs))) + 3
	if places > 12 {
		places = 12
	}
	d := decimal.NewFromFloat(amount).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + c.Symbol + d.String()
}

// FormatCompact renders large amounts with K, M or B suffixes.
func (c Currency) FormatCompact(amount float64) string {
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("%s%.2fB", c.Symbol, amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%s%.2fM", c.Symbol, amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("%s%.1fK", c.Symbol, amount/1e3)
	}
	return fmt.Sprintf("%s%.2f", c.Symbol, amount)
}

// FormatPercentage renders a percent change with an explicit plus sign for
// gains: +1.25%.
func FormatPercentage(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, v)
}

// FormatDuration renders an age given in minutes as 45m, 3h 20m or 2d 4h.
func FormatDuration(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", int(math.Round(minutes)))
	}
	hours := math.Floor(minutes / 60)
	if hours < 24 {
		return fmt.Sprintf("%dh %dm", int(hours), int(math.Round(math.Mod(minutes, 60))))
	}
	days := math.Floor(hours / 24)
	return fmt.Sprintf("%dd %dh", int(days), int(math.Round(math.Mod(hours, 24))))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
