package logic

import "time"

// Detector tracks the current band and reports band transitions.
type Detector struct {
	band          Band
	last          Reading
	baselined     bool
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewDetector creates a new band transition detector.
// The startTime is used for calculating uptime in heartbeat events.
func NewDetector(startTime time.Time) *Detector {
	return &Detector{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes the outcome of one loop iteration and returns any events
// that should be emitted. The first call establishes the baseline and never
// emits; later calls emit one event when the band differs from the last one.
func (d *Detector) Process(r Reading, b Bank, now time.Time) []Event {
	band := b.Band()
	d.last = r
	d.eventCounts.Samples++

	if !d.baselined {
		d.band = band
		d.baselined = true
		return nil
	}

	if band == d.band {
		return nil
	}

	event := Event{
		Timestamp: now,
		From:      d.band,
		To:        band,
		Reading:   r,
	}
	if band > d.band {
		event.Type = EventRise
		d.eventCounts.Rise++
	} else {
		event.Type = EventFall
		d.eventCounts.Fall++
	}
	d.band = band

	return []Event{event}
}

// IsBaselined returns whether the detector has seen its first reading.
func (d *Detector) IsBaselined() bool {
	return d.baselined
}

// CurrentBand returns the band of the most recent reading.
func (d *Detector) CurrentBand() Band {
	return d.band
}

// LastReading returns the most recent reading.
func (d *Detector) LastReading() Reading {
	return d.last
}

// EventCountsSnapshot returns a copy of the event counters.
func (d *Detector) EventCountsSnapshot() EventCounts {
	return d.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !d.baselined {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.eventCounts,
	}
}
