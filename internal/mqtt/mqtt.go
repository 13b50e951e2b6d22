// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// Topic is the MQTT topic for band transition events.
const Topic = "sensors/temperature/events"

// TopicReading is the MQTT topic for the latest reading (retained).
const TopicReading = "sensors/temperature/reading"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "sensors/temperature/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a band transition event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishReading sends the outcome of one loop iteration.
	PublishReading(sample Sample) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Sample is one loop iteration's reading and indicator states.
type Sample struct {
	Timestamp time.Time
	Reading   logic.Reading
	Bank      logic.Bank
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT", "MQTT_DISCONNECT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Message is an encoded publish, ready for the broker.
type Message struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// EventMessage encodes a band transition. QoS 0, not retained.
func EventMessage(event logic.Event) (Message, error) {
	payload, err := FormatPayload(event)
	if err != nil {
		return Message{}, fmt.Errorf("format payload: %w", err)
	}
	return Message{Topic: Topic, QoS: 0, Payload: payload}, nil
}

// ReadingMessage encodes a reading. It is retained so new subscribers see
// the latest value.
func ReadingMessage(s Sample) (Message, error) {
	payload, err := FormatReadingPayload(s)
	if err != nil {
		return Message{}, fmt.Errorf("format reading payload: %w", err)
	}
	return Message{Topic: TopicReading, QoS: 0, Retained: true, Payload: payload}, nil
}

// SystemMessage encodes a lifecycle event at QoS 1.
func SystemMessage(event SystemEvent) (Message, error) {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return Message{}, fmt.Errorf("format system payload: %w", err)
	}
	return Message{Topic: TopicSystem, QoS: 1, Retained: event.Retained, Payload: payload}, nil
}

// Payload represents the MQTT message payload for a band transition.
type Payload struct {
	Temperature EventPayload `json:"temperature"`
}

// EventPayload contains the band transition details.
type EventPayload struct {
	Timestamp  string  `json:"timestamp"`
	Event      string  `json:"event"`
	FromBand   int     `json:"from_band"`
	ToBand     int     `json:"to_band"`
	Raw        int     `json:"raw"`
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
}

// FormatPayload creates the JSON payload for a band transition event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Temperature: EventPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      string(event.Type),
			FromBand:   int(event.From),
			ToBand:     int(event.To),
			Raw:        int(event.Reading.Raw),
			Celsius:    event.Reading.Celsius,
			Fahrenheit: event.Reading.Fahrenheit,
		},
	}
	return json.Marshal(payload)
}

// ReadingPayload represents the MQTT message payload for a reading.
type ReadingPayload struct {
	Reading ReadingInner `json:"reading"`
}

// ReadingInner contains the reading details.
type ReadingInner struct {
	Timestamp  string  `json:"timestamp"`
	Raw        int     `json:"raw"`
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Display    string  `json:"display"`
	Band       int     `json:"band"`
	Indicators []bool  `json:"indicators"`
}

// FormatReadingPayload creates the JSON payload for a reading.
func FormatReadingPayload(s Sample) ([]byte, error) {
	payload := ReadingPayload{
		Reading: ReadingInner{
			Timestamp:  s.Timestamp.UTC().Format(time.RFC3339),
			Raw:        int(s.Reading.Raw),
			Celsius:    s.Reading.Celsius,
			Fahrenheit: s.Reading.Fahrenheit,
			Display:    logic.FormatReading(s.Reading),
			Band:       int(s.Bank.Band()),
			Indicators: s.Bank[:],
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
