//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives output lines on actual hardware using Linux GPIO character device.
type RealWriter struct {
	chipName string
	offsets  []int
	chip     *gpiocdev.Chip
	lines    []*gpiocdev.Line
}

// NewRealWriter opens the GPIO chip. Lines are requested by Configure.
func NewRealWriter(chipName string, offsets []int) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	return &RealWriter{
		chipName: chipName,
		offsets:  offsets,
		chip:     chip,
	}, nil
}

// Configure requests every offset as an output, driven low.
// Each line is requested separately so that Set writes exactly one line.
func (w *RealWriter) Configure() error {
	if w.lines != nil {
		return nil
	}

	lines := make([]*gpiocdev.Line, 0, len(w.offsets))
	for _, offset := range w.offsets {
		l, err := w.chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("temp-indicator"))
		if err != nil {
			for _, prev := range lines {
				prev.Close()
			}
			return fmt.Errorf("request output line %d on %s: %w", offset, w.chipName, err)
		}
		lines = append(lines, l)
	}
	w.lines = lines
	return nil
}

// Set drives line i high or low.
func (w *RealWriter) Set(i int, on bool) error {
	if i < 0 || i >= len(w.lines) {
		return fmt.Errorf("line %d not configured", i)
	}

	v := 0
	if on {
		v = 1
	}
	if err := w.lines[i].SetValue(v); err != nil {
		return fmt.Errorf("set line %d: %w", w.offsets[i], err)
	}
	return nil
}

// Close releases GPIO resources.
// Lines are driven low and returned to inputs before closing so the
// indicators go dark when the daemon stops.
func (w *RealWriter) Close() error {
	var errs []error

	for i, l := range w.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear line %d: %w", w.offsets[i], err))
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line %d: %w", w.offsets[i], err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", w.offsets[i], err))
		}
	}
	w.lines = nil

	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
