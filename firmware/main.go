//go:build tinygo

//go:generate tinygo flash -target=pico

// Command firmware runs the temperature indicator on a microcontroller:
// on-chip ADC, eight indicator pins and an HD44780 LCD.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/sweeney/temp-indicator/internal/control"
	"github.com/sweeney/temp-indicator/internal/display"
	"github.com/sweeney/temp-indicator/internal/indicator"
	"github.com/sweeney/temp-indicator/internal/logic"
)

func main() {
	sampler := newADCSampler(adcPins[:])

	// Setup LCD display
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: LCD_SDA,
		SCL: LCD_SCL,
	})
	if err != nil {
		halt("could not configure I2C", err)
	}
	addr, err := findLCD(machine.I2C0, lcdAddrs[:])
	if err != nil {
		halt("LCD not found", err)
	}
	screen := newLCD(machine.I2C0, addr, 16, 2)

	ind, err := indicator.New(&pinBank{pins: indicatorPins[:]}, logic.DefaultThresholds)
	if err != nil {
		halt("bad thresholds", err)
	}

	loop := control.New(sampler, ind, display.NewPresenter(screen, display.Label), SensorChannel, control.DefaultDelay)
	if err := loop.Init(); err != nil {
		halt("init failed", err)
	}

	loop.Run(context.Background(), func(_ control.Result, err error) {
		if err != nil {
			println("iteration error:", err.Error())
		}
	})
}

func halt(msg string, err error) {
	for {
		println(msg, err.Error())
		time.Sleep(time.Second)
	}
}
