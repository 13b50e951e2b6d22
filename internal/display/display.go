// Package display renders readings on a two-line character display.
package display

import (
	"fmt"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// Label is printed on the first line.
const Label = "Temperatures: "

// Device is a character display.
type Device interface {
	Init() error
	Clear() error
	SetCursor(col, row int) error
	// Print writes text at the cursor. Text beyond the end of the row is dropped.
	Print(text string) error
}

// Flusher is implemented by devices that buffer output until told to show it.
type Flusher interface {
	Flush() error
}

// Presenter lays readings out on a Device.
type Presenter struct {
	dev   Device
	label string
}

// NewPresenter creates a Presenter printing label on the first line.
func NewPresenter(dev Device, label string) *Presenter {
	return &Presenter{dev: dev, label: label}
}

// Init initializes the device.
func (p *Presenter) Init() error {
	if err := p.dev.Init(); err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	return nil
}

// Show clears the display and renders the label and the formatted reading.
func (p *Presenter) Show(r logic.Reading) error {
	if err := p.dev.Clear(); err != nil {
		return fmt.Errorf("clear display: %w", err)
	}
	if err := p.printAt(0, p.label); err != nil {
		return err
	}
	if err := p.printAt(1, logic.FormatReading(r)); err != nil {
		return err
	}
	if f, ok := p.dev.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush display: %w", err)
		}
	}
	return nil
}

func (p *Presenter) printAt(row int, text string) error {
	if err := p.dev.SetCursor(0, row); err != nil {
		return fmt.Errorf("set cursor row %d: %w", row, err)
	}
	if err := p.dev.Print(text); err != nil {
		return fmt.Errorf("print row %d: %w", row, err)
	}
	return nil
}
