// Package adc provides analog sampling with hardware abstraction.
// The serial implementation talks to an ADC bridge microcontroller.
// The fake implementation allows testing and simulation without hardware.
package adc

import "github.com/sweeney/temp-indicator/internal/logic"

// Sampler performs one blocking conversion on a channel.
type Sampler interface {
	// Sample blocks until the conversion completes and returns a value in
	// [0, logic.MaxRaw].
	Sample(ch logic.Channel) (logic.RawSample, error)

	// Close releases sampler resources.
	Close() error
}
