// Package status holds the daemon state shared between the control loop,
// which writes it once per iteration, and the HTTP handlers and lifecycle
// events, which read copies of it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// Config is the startup configuration, reported verbatim.
type Config struct {
	Sampler     string // "serial:/dev/ttyACM0" or "simulated"
	Channel     uint8
	Thresholds  logic.Thresholds
	Label       string
	DelayMs     int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a copy of the tracked state. Now is the time the copy was taken.
type Snapshot struct {
	Config    Config
	StartTime time.Time
	Now       time.Time

	HasReading bool
	Reading    logic.Reading
	Bank       logic.Bank
	LastSample time.Time
	Counts     logic.EventCounts

	Errors            int
	ConsecutiveErrors int
	LastError         string

	MQTTConnected bool
}

// Uptime is the time elapsed between start and the snapshot.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker guards a Snapshot. All methods are safe for concurrent use.
type Tracker struct {
	clock func() time.Time

	mu    sync.RWMutex
	state Snapshot
}

// NewTracker returns a Tracker with no reading yet.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	t := &Tracker{clock: time.Now}
	t.state.StartTime = startTime
	t.state.Config = cfg
	return t
}

// Update stores a successful iteration and clears the failure streak.
func (t *Tracker) Update(r logic.Reading, b logic.Bank, counts logic.EventCounts) {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.HasReading = true
	t.state.Reading, t.state.Bank = r, b
	t.state.LastSample = now
	t.state.Counts = counts
	t.state.ConsecutiveErrors = 0
}

// RecordError counts a failed iteration. The previous reading is kept.
func (t *Tracker) RecordError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Errors++
	t.state.ConsecutiveErrors++
	t.state.LastError = err.Error()
}

// SetMQTTConnected records the broker connection state.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.MQTTConnected = connected
}

// Snapshot copies the current state and stamps it with the current time.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	snap := t.state
	t.mu.RUnlock()

	snap.Now = t.clock()
	return snap
}
