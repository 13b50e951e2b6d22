// Package indicator drives the eight-line indicator bank from a temperature.
package indicator

import (
	"fmt"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// Output is the hardware side of the bank. gpio.Writer satisfies it, as do
// the firmware pin adapters.
type Output interface {
	Configure() error
	Set(i int, on bool) error
}

// Controller evaluates thresholds and writes the result line by line.
type Controller struct {
	out        Output
	thresholds logic.Thresholds
}

// New creates a Controller. It returns an error if the thresholds are not
// strictly increasing.
func New(out Output, thresholds logic.Thresholds) (*Controller, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("indicator thresholds: %w", err)
	}
	return &Controller{out: out, thresholds: thresholds}, nil
}

// Configure marks every indicator line as an output.
func (c *Controller) Configure() error {
	if err := c.out.Configure(); err != nil {
		return fmt.Errorf("configure indicator outputs: %w", err)
	}
	return nil
}

// Thresholds returns the thresholds the controller evaluates against.
func (c *Controller) Thresholds() logic.Thresholds {
	return c.thresholds
}

// Update sets every indicator for the given Celsius temperature.
// Lines are written one at a time in index order, each write depending only
// on celsius. If a write fails the remaining lines are still written and
// the first error is returned.
func (c *Controller) Update(celsius float64) (logic.Bank, error) {
	bank := logic.Evaluate(celsius, c.thresholds)

	var firstErr error
	for i, on := range bank {
		if err := c.out.Set(i, on); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("write indicator %d: %w", i, err)
		}
	}
	return bank, firstErr
}
