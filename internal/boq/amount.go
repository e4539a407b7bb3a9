package boq

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents converts a float amount to integer cents, rounding half away from zero.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return float64(Cents(v)) / 100
}

// FormatAmount renders v as "#,##0.00".
func FormatAmount(v float64) string {
	return FormatCents(Cents(v))
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	fmt.Fprintf(&b, ".%02d", cents%100)
	return b.String()
}

// FormatQuantity renders a quantity with two decimals and no separators.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// ParseAmountCents parses a display amount such as "1,234.50" into cents.
func ParseAmountCents(s string) (int64, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q failed: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	return Cents(v), nil
}

// GrandTotalCents sums every item's total. Unparseable totals count as zero.
func GrandTotalCents(b Boq) int64 {
	var sum int64
	for _, section := range b {
		for _, item := range section.Items {
			c, err := ParseAmountCents(item.Total)
			if err != nil {
				continue
			}
			sum += c
		}
	}
	return sum
}

// GrandTotal is the formatted sum of all item totals.
func GrandTotal(b Boq) string {
	return FormatCents(GrandTotalCents(b))
}
