package money

import "fmt"

// FormatMinor renders an amount in minor units as a decimal string with two
// fractional digits, e.g. 1050 -> "10.50".
func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := value / 100
	frac := value % 100
	formatted := fmt.Sprintf("%d.%02d", whole, frac)
	if negative {
		return "-" + formatted
	}
	return formatted
}
