package control

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/temp-indicator/internal/adc"
	"github.com/sweeney/temp-indicator/internal/display"
	"github.com/sweeney/temp-indicator/internal/gpio"
	"github.com/sweeney/temp-indicator/internal/indicator"
	"github.com/sweeney/temp-indicator/internal/logic"
)

type rig struct {
	loop    *Loop
	sampler *adc.FakeSampler
	out     *gpio.FakeWriter
	disp    *display.FakeDisplay
}

func newRig(t *testing.T, samples ...logic.RawSample) *rig {
	t.Helper()
	s := adc.NewFakeSampler(samples)
	out := gpio.NewFakeWriter(logic.NumIndicators)
	ind, err := indicator.New(out, logic.DefaultThresholds)
	require.NoError(t, err)
	d := display.NewFakeDisplay(20, 2)
	l := New(s, ind, display.NewPresenter(d, display.Label), 0, 0)
	return &rig{loop: l, sampler: s, out: out, disp: d}
}

func (r *rig) line(i int) string {
	return strings.TrimRight(r.disp.Lines()[i], " ")
}

func TestNewDefaultDelay(t *testing.T) {
	r := newRig(t, 0)
	assert.Equal(t, 1000*time.Millisecond, r.loop.Delay())
}

func TestInit(t *testing.T) {
	r := newRig(t, 0)
	require.NoError(t, r.loop.Init())
	assert.True(t, r.disp.Initialized)
	assert.True(t, r.out.Configured)
}

func TestStepRawZero(t *testing.T) {
	r := newRig(t, 0)

	res, err := r.loop.Step()
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Reading.Celsius)
	assert.Equal(t, 32.0, res.Reading.Fahrenheit)
	assert.Equal(t, "........", res.Bank.String())
	assert.Equal(t, "Temperatures:", r.line(0))
	assert.Equal(t, "0.00C   32.00F", r.line(1))
	assert.Equal(t, []logic.Channel{0}, r.sampler.Channels)
}

func TestStepRawFullScale(t *testing.T) {
	r := newRig(t, logic.MaxRaw)

	res, err := r.loop.Step()
	require.NoError(t, err)

	assert.Equal(t, 500.0, res.Reading.Celsius)
	assert.Equal(t, 932.0, res.Reading.Fahrenheit)
	assert.Equal(t, "########", res.Bank.String())
	for i, on := range r.out.Lines {
		assert.True(t, on, "line %d", i)
	}
	assert.Equal(t, "500.00C   932.00F", r.line(1))
}

func TestStepWritesIndicatorsBeforeDisplay(t *testing.T) {
	r := newRig(t, 100)

	_, err := r.loop.Step()
	require.NoError(t, err)

	// 100 * 500 / 1023 = 48.87C: four indicators lit.
	require.Len(t, r.out.Writes, logic.NumIndicators)
	for i, w := range r.out.Writes {
		assert.Equal(t, i, w.Line)
		assert.Equal(t, i < 4, w.On, "line %d", i)
	}
	assert.Equal(t, "48.87C   119.97F", r.line(1))
}

func TestStepSampleErrorKeepsPreviousState(t *testing.T) {
	r := newRig(t, logic.MaxRaw)
	_, err := r.loop.Step()
	require.NoError(t, err)

	r.sampler.SampleError = errors.New("bridge gone")
	writes := len(r.out.Writes)
	ops := len(r.disp.Ops)

	res, err := r.loop.Step()
	require.Error(t, err)
	assert.False(t, res.Sampled)
	assert.Contains(t, err.Error(), "bridge gone")
	assert.Len(t, r.out.Writes, writes, "no indicator writes after failed sample")
	assert.Len(t, r.disp.Ops, ops, "no display writes after failed sample")
	assert.Equal(t, "500.00C   932.00F", r.line(1))
}

func TestStepIndicatorErrorStillDisplays(t *testing.T) {
	r := newRig(t, 0)
	r.out.SetError = errors.New("line fault")

	res, err := r.loop.Step()
	require.Error(t, err)
	assert.True(t, res.Sampled)
	assert.Equal(t, 32.0, res.Reading.Fahrenheit)
	assert.Equal(t, "0.00C   32.00F", r.line(1))
}

func TestRunDelaysBetweenIterations(t *testing.T) {
	r := newRig(t, 0, 512, logic.MaxRaw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delays []time.Duration
	r.loop.after = func(d time.Duration) <-chan time.Time {
		delays = append(delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	var results []Result
	err := r.loop.Run(ctx, func(res Result, err error) {
		require.NoError(t, err)
		results = append(results, res)
		if len(results) == 3 {
			cancel()
		}
	})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, logic.RawSample(0), results[0].Reading.Raw)
	assert.Equal(t, logic.RawSample(512), results[1].Reading.Raw)
	assert.Equal(t, logic.RawSample(logic.MaxRaw), results[2].Reading.Raw)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, delays)
}

func TestRunContinuesAfterErrors(t *testing.T) {
	r := newRig(t, 0)
	r.sampler.SampleError = errors.New("no reply")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.loop.after = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	calls := 0
	err := r.loop.Run(ctx, func(_ Result, err error) {
		calls++
		switch calls {
		case 1:
			assert.Error(t, err)
		case 2:
			assert.Error(t, err)
			r.sampler.SampleError = nil
		default:
			assert.NoError(t, err)
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
