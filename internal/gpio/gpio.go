// Package gpio provides GPIO output lines with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Writer drives a fixed set of output lines.
type Writer interface {
	// Configure requests every line as an output, initially low.
	Configure() error

	// Set drives line i (index into the configured offsets) high or low.
	// Each call is an immediate, unbuffered write of that one line.
	Set(i int, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// DefaultOffsets are the indicator line offsets (BCM numbering), ordered
// green1..green3, yellow1..yellow3, red1, red2.
var DefaultOffsets = []int{5, 6, 13, 19, 26, 16, 20, 21}
