// Package logic contains the pure temperature logic: unit conversion,
// threshold evaluation, display formatting and band transition detection.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// MaxRaw is the largest value a 10-bit conversion can produce.
const MaxRaw = 1023

// NumIndicators is the number of indicator lines in the bank.
const NumIndicators = 8

// Channel identifies an analog input.
type Channel uint8

// RawSample is an unconverted 10-bit conversion result in [0, MaxRaw].
type RawSample uint16

// Reading is a temperature derived from a single raw sample.
type Reading struct {
	Raw        RawSample
	Celsius    float64
	Fahrenheit float64
}

// Thresholds holds the Celsius value at which each indicator turns on.
// Values must be strictly increasing.
type Thresholds [NumIndicators]float64

// DefaultThresholds are the factory thresholds in degrees Celsius.
var DefaultThresholds = Thresholds{20, 28, 36, 44, 52, 60, 68, 76}

// Bank is the on/off state of every indicator, index 0 being the lowest threshold.
type Bank [NumIndicators]bool

// Band is the number of lit indicators (0..NumIndicators).
// Because thresholds increase, it identifies which of the nine temperature
// bands a reading falls in.
type Band int

// Color is the lens color of an indicator.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

// EventType represents a band transition.
type EventType string

const (
	EventRise EventType = "RISE"
	EventFall EventType = "FALL"
)

// Event represents a band transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      Band
	To        Band
	Reading   Reading
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Rise    int
	Fall    int
	Samples int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
