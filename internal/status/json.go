package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Ready         bool            `json:"ready"`
	Reading       *ReadingJSON    `json:"reading,omitempty"`
	LastSample    string          `json:"last_sample,omitempty"`
	Indicators    []IndicatorJSON `json:"indicators"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"counts"`
	LastError     string          `json:"last_error,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// ReadingJSON is the JSON representation of the latest reading.
type ReadingJSON struct {
	Raw        int       `json:"raw"`
	Celsius    float64   `json:"celsius"`
	Fahrenheit float64   `json:"fahrenheit"`
	Band       int       `json:"band"`
	Display    [2]string `json:"display"`
}

// IndicatorJSON is the JSON representation of one indicator.
type IndicatorJSON struct {
	Color     string  `json:"color"`
	Threshold float64 `json:"threshold"`
	On        bool    `json:"on"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Rise    int `json:"rise"`
	Fall    int `json:"fall"`
	Samples int `json:"samples"`
	Errors  int `json:"errors"`
	// ConsecutiveErrors is the number of failed iterations since the last
	// good one.
	ConsecutiveErrors int `json:"consecutive_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Sampler     string    `json:"sampler"`
	Channel     uint8     `json:"channel"`
	Thresholds  []float64 `json:"thresholds"`
	DelayMs     int64     `json:"delay_ms"`
	HeartbeatMs int64     `json:"heartbeat_ms"`
	HTTPAddr    string    `json:"http_addr"`
}

// Indicators pairs every indicator's color and threshold with its state.
func (s Snapshot) Indicators() []IndicatorJSON {
	out := make([]IndicatorJSON, logic.NumIndicators)
	for i := range out {
		out[i] = IndicatorJSON{
			Color:     string(logic.ColorOf(i)),
			Threshold: s.Config.Thresholds[i],
			On:        s.Bank[i],
		}
	}
	return out
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Ready:         snap.HasReading,
		Indicators:    snap.Indicators(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Rise:    snap.Counts.Rise,
			Fall:    snap.Counts.Fall,
			Samples: snap.Counts.Samples,
			Errors:  snap.Errors,

			ConsecutiveErrors: snap.ConsecutiveErrors,
		},
		LastError: snap.LastError,
		Config: ConfigJSON{
			Sampler:     snap.Config.Sampler,
			Channel:     snap.Config.Channel,
			Thresholds:  snap.Config.Thresholds[:],
			DelayMs:     snap.Config.DelayMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}

	if snap.HasReading {
		inner.LastSample = snap.LastSample.UTC().Format(time.RFC3339)
		inner.Reading = &ReadingJSON{
			Raw:        int(snap.Reading.Raw),
			Celsius:    snap.Reading.Celsius,
			Fahrenheit: snap.Reading.Fahrenheit,
			Band:       int(snap.Bank.Band()),
			Display:    [2]string{snap.Config.Label, logic.FormatReading(snap.Reading)},
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
