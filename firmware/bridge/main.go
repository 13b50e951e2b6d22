//go:build tinygo

//go:generate tinygo flash -target=pico

// Command bridge exposes the on-chip ADC over a serial line so the host
// daemon can sample it. It answers "A<channel>\n" with "<raw>\n" (10-bit)
// or "E<text>\n".
package main

import (
	"machine"
	"strconv"
)

const (
	UART_BAUD_RATE = 115200
	ADC_SHIFT      = 16 - 10
)

var (
	uart    = machine.Serial
	adcPins = [...]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2}
	adcs    [len(adcPins)]machine.ADC

	// Serial buffer for reading lines
	lineBuf [8]byte
	linePos int
	overrun bool
)

func main() {
	machine.InitADC()
	for i, p := range adcPins {
		adcs[i] = machine.ADC{Pin: p}
		adcs[i].Configure(machine.ADCConfig{})
	}

	uart.Configure(machine.UARTConfig{BaudRate: UART_BAUD_RATE})

	for {
		if uart.Buffered() == 0 {
			continue
		}
		data, err := uart.ReadByte()
		if err != nil {
			continue
		}

		switch data {
		case '\r':
		case '\n':
			if overrun {
				reply("Eline too long")
			} else {
				handle(lineBuf[:linePos])
			}
			linePos = 0
			overrun = false
		default:
			if linePos < len(lineBuf) {
				lineBuf[linePos] = data
				linePos++
			} else {
				overrun = true
			}
		}
	}
}

func handle(req []byte) {
	if len(req) < 2 || req[0] != 'A' {
		reply("Ebad request")
		return
	}
	ch, err := strconv.Atoi(string(req[1:]))
	if err != nil || ch < 0 || ch >= len(adcs) {
		reply("Ebad channel")
		return
	}
	reply(strconv.Itoa(int(adcs[ch].Get() >> ADC_SHIFT)))
}

func reply(s string) {
	uart.Write([]byte(s))
	uart.Write([]byte{'\n'})
}
