package logic

import "fmt"

// Evaluate returns the indicator states for a Celsius temperature.
// Each indicator is compared independently and inclusively: indicator i is
// on iff celsius >= t[i]. Values are not clamped, and NaN lights nothing.
func Evaluate(celsius float64, t Thresholds) Bank {
	var b Bank
	for i := range t {
		b[i] = celsius >= t[i]
	}
	return b
}

// Validate reports an error unless the thresholds are strictly increasing.
func (t Thresholds) Validate() error {
	for i := 1; i < len(t); i++ {
		if !(t[i] > t[i-1]) {
			return fmt.Errorf("threshold %d (%v) must be greater than threshold %d (%v)", i, t[i], i-1, t[i-1])
		}
	}
	return nil
}

// Band returns the number of lit indicators.
func (b Bank) Band() Band {
	n := 0
	for _, on := range b {
		if on {
			n++
		}
	}
	return Band(n)
}

// String renders the bank as one character per indicator, '#' for on and
// '.' for off, lowest threshold first.
func (b Bank) String() string {
	buf := make([]byte, len(b))
	for i, on := range b {
		if on {
			buf[i] = '#'
		} else {
			buf[i] = '.'
		}
	}
	return string(buf)
}

// ColorOf returns the lens color of indicator i: three green, three yellow,
// then two red.
func ColorOf(i int) Color {
	switch {
	case i < 3:
		return Green
	case i < 6:
		return Yellow
	default:
		return Red
	}
}
