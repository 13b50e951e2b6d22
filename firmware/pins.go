//go:build tinygo

package main

import "machine"

const (
	// Sensor on ADC0 (GP26). Channel 0 selects it.
	SensorChannel = 0

	// LCD backpack on I2C0
	LCD_SDA = machine.GP4
	LCD_SCL = machine.GP5

	// ADC configuration. Get() returns a left-aligned 16-bit value; the
	// top ten bits are the conversion.
	ADC_SHIFT = 16 - 10
)

var (
	// Analog inputs, indexed by channel.
	adcPins = [...]machine.Pin{machine.ADC0}

	// Indicator pins, lowest threshold first:
	// green1..green3, yellow1..yellow3, red1, red2.
	indicatorPins = [...]machine.Pin{
		machine.GP6,
		machine.GP7,
		machine.GP8,
		machine.GP9,
		machine.GP10,
		machine.GP11,
		machine.GP12,
		machine.GP13,
	}

	// Common LCD backpack addresses, tried in order by findLCD.
	lcdAddrs = [...]uint8{0x27, 0x3F}
)
