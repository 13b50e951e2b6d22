// Package control runs the sample, convert, indicate, display, delay cycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/temp-indicator/internal/display"
	"github.com/sweeney/temp-indicator/internal/indicator"
	"github.com/sweeney/temp-indicator/internal/logic"
)

// DefaultDelay is the pause between iterations.
const DefaultDelay = 1000 * time.Millisecond

// Sampler performs one blocking conversion. adc.Sampler satisfies it.
type Sampler interface {
	Sample(ch logic.Channel) (logic.RawSample, error)
}

// Result is the outcome of one iteration.
type Result struct {
	Reading logic.Reading
	Bank    logic.Bank
	// Sampled is false when the conversion failed and nothing else ran.
	Sampled bool
}

// Loop is the control loop. It is strictly sequential and must be driven
// from a single goroutine.
type Loop struct {
	sampler    Sampler
	indicators *indicator.Controller
	presenter  *display.Presenter
	channel    logic.Channel
	delay      time.Duration

	// after is time.After; tests replace it.
	after func(time.Duration) <-chan time.Time
}

// New creates a Loop sampling channel ch and pausing delay between
// iterations. A non-positive delay selects DefaultDelay.
func New(s Sampler, ind *indicator.Controller, p *display.Presenter, ch logic.Channel, delay time.Duration) *Loop {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Loop{
		sampler:    s,
		indicators: ind,
		presenter:  p,
		channel:    ch,
		delay:      delay,
		after:      time.After,
	}
}

// Delay returns the pause between iterations.
func (l *Loop) Delay() time.Duration {
	return l.delay
}

// Init prepares the display and the indicator outputs. Run it once.
func (l *Loop) Init() error {
	if err := l.presenter.Init(); err != nil {
		return err
	}
	return l.indicators.Configure()
}

// Step runs one iteration: sample, convert, indicate, display.
// A failed sample skips the rest of the iteration so the outputs and the
// display keep their previous state. Indicator and display failures do not
// stop each other.
func (l *Loop) Step() (Result, error) {
	raw, err := l.sampler.Sample(l.channel)
	if err != nil {
		return Result{}, fmt.Errorf("sample channel %d: %w", l.channel, err)
	}

	res := Result{Reading: logic.NewReading(raw), Sampled: true}

	bank, indErr := l.indicators.Update(res.Reading.Celsius)
	res.Bank = bank

	dispErr := l.presenter.Show(res.Reading)

	return res, errors.Join(indErr, dispErr)
}

// Run calls Step forever, pausing Delay after each iteration, until ctx is
// cancelled. observe, if not nil, receives every iteration's outcome.
// Errors never stop the loop.
func (l *Loop) Run(ctx context.Context, observe func(Result, error)) error {
	for {
		res, err := l.Step()
		if observe != nil {
			observe(res, err)
		}
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.after(l.delay):
		}
	}
}
