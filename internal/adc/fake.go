package adc

import (
	"errors"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// FakeSampler is a test double that returns scripted raw samples.
type FakeSampler struct {
	// Samples contains scripted values to return.
	// Each call to Sample() consumes the next value.
	Samples []logic.RawSample

	// Loop restarts from the first sample once the script is exhausted
	// instead of repeating the last one.
	Loop bool

	// Channels records the channel of every Sample call.
	Channels []logic.Channel

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// SampleError, if set, will be returned by Sample()
	SampleError error
}

// NewFakeSampler creates a FakeSampler with the given samples.
func NewFakeSampler(samples []logic.RawSample) *FakeSampler {
	return &FakeSampler{Samples: samples}
}

// NewSweepSampler returns a looping FakeSampler that ramps from 0 to
// logic.MaxRaw and back in the given step.
func NewSweepSampler(step int) *FakeSampler {
	if step <= 0 {
		step = 1
	}
	var samples []logic.RawSample
	for v := 0; v < logic.MaxRaw; v += step {
		samples = append(samples, logic.RawSample(v))
	}
	for v := logic.MaxRaw; v > 0; v -= step {
		samples = append(samples, logic.RawSample(v))
	}
	return &FakeSampler{Samples: samples, Loop: true}
}

// Sample returns the next scripted value.
// If samples are exhausted, returns the last sample repeatedly unless Loop is set.
func (f *FakeSampler) Sample(ch logic.Channel) (logic.RawSample, error) {
	f.Channels = append(f.Channels, ch)

	if f.SampleError != nil {
		return 0, f.SampleError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	v := f.Samples[f.index]
	switch {
	case f.index < len(f.Samples)-1:
		f.index++
	case f.Loop:
		f.index = 0
	}

	return v, nil
}

// Close marks the sampler as closed.
func (f *FakeSampler) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the sampler to the beginning of samples.
func (f *FakeSampler) Reset() {
	f.index = 0
	f.Channels = nil
	f.Closed = false
}
