package logic

import (
	"fmt"
	"math"
)

// FormatTemperature renders v with exactly two fractional digits.
// Both parts are truncated toward zero, never rounded: 23.999 renders as
// "23.99".
func FormatTemperature(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int64(v)
	frac := int64((v - float64(whole)) * 100)
	if whole == 0 && frac == 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
}

// FormatReading renders the second display line, e.g. "23.99C   75.18F".
func FormatReading(r Reading) string {
	return FormatTemperature(r.Celsius) + "C   " + FormatTemperature(r.Fahrenheit) + "F"
}
