package gpio

import "fmt"

// FakeWriter is a test double that records every write in order.
type FakeWriter struct {
	// Lines is the current level of every line.
	Lines []bool

	// Writes contains every Set call, in call order.
	Writes []Write

	// Configured tracks if Configure was called.
	Configured bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// Write is a single recorded Set call.
type Write struct {
	Line int
	On   bool
}

// NewFakeWriter creates a FakeWriter with n lines, all low.
func NewFakeWriter(n int) *FakeWriter {
	return &FakeWriter{Lines: make([]bool, n)}
}

// Configure marks the writer as configured.
func (f *FakeWriter) Configure() error {
	f.Configured = true
	return nil
}

// Set records the write and updates the line level.
func (f *FakeWriter) Set(i int, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if i < 0 || i >= len(f.Lines) {
		return fmt.Errorf("line %d out of range (have %d)", i, len(f.Lines))
	}

	f.Lines[i] = on
	f.Writes = append(f.Writes, Write{Line: i, On: on})
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes and drives every line low.
func (f *FakeWriter) Reset() {
	for i := range f.Lines {
		f.Lines[i] = false
	}
	f.Writes = nil
	f.Configured = false
	f.Closed = false
	f.SetError = nil
}
