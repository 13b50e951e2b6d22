//go:build tinygo

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/sweeney/temp-indicator/internal/logic"
)

var (
	errBadChannel = errors.New("no analog input on channel")
	errNoLCD      = errors.New("no LCD backpack acknowledged")
)

// adcSampler reads the on-chip ADC. A conversion cannot fail or time out.
type adcSampler struct {
	adcs []machine.ADC
}

func newADCSampler(pins []machine.Pin) *adcSampler {
	machine.InitADC()
	s := &adcSampler{}
	for _, p := range pins {
		a := machine.ADC{Pin: p}
		a.Configure(machine.ADCConfig{})
		s.adcs = append(s.adcs, a)
	}
	return s
}

func (s *adcSampler) Sample(ch logic.Channel) (logic.RawSample, error) {
	if int(ch) >= len(s.adcs) {
		return 0, errBadChannel
	}
	return logic.RawSample(s.adcs[ch].Get() >> ADC_SHIFT), nil
}

// pinBank drives the indicator pins.
type pinBank struct {
	pins []machine.Pin
}

func (b *pinBank) Configure() error {
	for _, p := range b.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return nil
}

func (b *pinBank) Set(i int, on bool) error {
	if i < 0 || i >= len(b.pins) {
		return errors.New("indicator index out of range")
	}
	b.pins[i].Set(on)
	return nil
}

// lcd adapts an HD44780 behind an I2C backpack. Text past the end of a row
// is dropped rather than wrapped into the controller's hidden memory.
type lcd struct {
	dev      hd44780i2c.Device
	width    int
	height   int
	col, row int
}

// findLCD returns the first address that acknowledges a one-byte read.
func findLCD(bus *machine.I2C, addrs []uint8) (uint8, error) {
	var b [1]byte
	for _, a := range addrs {
		if err := bus.Tx(uint16(a), nil, b[:]); err == nil {
			return a, nil
		}
	}
	return 0, errNoLCD
}

func newLCD(bus *machine.I2C, addr uint8, width, height int) *lcd {
	return &lcd{
		dev:    hd44780i2c.New(bus, addr),
		width:  width,
		height: height,
	}
}

func (l *lcd) Init() error {
	l.dev.Configure(hd44780i2c.Config{
		Width:  uint8(l.width),
		Height: uint8(l.height),
	})
	return nil
}

func (l *lcd) Clear() error {
	l.dev.ClearDisplay()
	l.col, l.row = 0, 0
	return nil
}

func (l *lcd) SetCursor(col, row int) error {
	if col < 0 || col >= l.width || row < 0 || row >= l.height {
		return errors.New("cursor outside display")
	}
	l.dev.SetCursor(uint8(col), uint8(row))
	l.col, l.row = col, row
	return nil
}

func (l *lcd) Print(text string) error {
	if room := l.width - l.col; len(text) > room {
		text = text[:room]
	}
	if text == "" {
		return nil
	}
	l.dev.Print([]byte(text))
	l.col += len(text)
	return nil
}
