package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/temp-indicator/internal/adc"
	"github.com/sweeney/temp-indicator/internal/config"
	"github.com/sweeney/temp-indicator/internal/control"
	"github.com/sweeney/temp-indicator/internal/display"
	"github.com/sweeney/temp-indicator/internal/gpio"
	"github.com/sweeney/temp-indicator/internal/indicator"
	"github.com/sweeney/temp-indicator/internal/logic"
	"github.com/sweeney/temp-indicator/internal/mqtt"
	"github.com/sweeney/temp-indicator/internal/status"
)

type system struct {
	sampler *adc.FakeSampler
	writer  *gpio.FakeWriter
	disp    *display.FakeDisplay
	loop    *control.Loop
}

func newSystem(t *testing.T, thresholds logic.Thresholds, samples []logic.RawSample) *system {
	t.Helper()
	s := &system{
		sampler: adc.NewFakeSampler(samples),
		writer:  gpio.NewFakeWriter(logic.NumIndicators),
		disp:    display.NewFakeDisplay(16, 2),
	}
	ind, err := indicator.New(s.writer, thresholds)
	if err != nil {
		t.Fatalf("indicator.New: %v", err)
	}
	s.loop = control.New(s.sampler, ind, display.NewPresenter(s.disp, display.Label), 0, 0)
	if err := s.loop.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func litLines(w *gpio.FakeWriter) int {
	n := 0
	for _, on := range w.Lines {
		if on {
			n++
		}
	}
	return n
}

// TestIntegrationFullFlow runs samples through the loop, the band detector
// and the publisher using fakes.
func TestIntegrationFullFlow(t *testing.T) {
	// 0 C, 25 C, 45 C, 80 C, 30 C
	samples := []logic.RawSample{0, 52, 93, 164, 62}
	sys := newSystem(t, logic.DefaultThresholds, samples)
	publisher := mqtt.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	detector := logic.NewDetector(startTime)

	for i := range samples {
		res, err := sys.loop.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		now := startTime.Add(time.Duration(i) * sys.loop.Delay())
		for _, event := range detector.Process(res.Reading, res.Bank, now) {
			if err := publisher.Publish(event); err != nil {
				t.Fatalf("step %d: publish error: %v", i, err)
			}
		}
		if err := publisher.PublishReading(mqtt.Sample{Timestamp: now, Reading: res.Reading, Bank: res.Bank}); err != nil {
			t.Fatalf("step %d: publish reading error: %v", i, err)
		}

		if got := litLines(sys.writer); got != int(res.Bank.Band()) {
			t.Errorf("step %d: %d lines lit, band %d", i, got, res.Bank.Band())
		}
	}

	want := []struct {
		typ      logic.EventType
		from, to logic.Band
	}{
		{logic.EventRise, 0, 1},
		{logic.EventRise, 1, 4},
		{logic.EventRise, 4, 8},
		{logic.EventFall, 8, 2},
	}
	if len(publisher.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(publisher.Events))
	}
	for i, w := range want {
		ev := publisher.Events[i]
		if ev.Type != w.typ || ev.From != w.from || ev.To != w.to {
			t.Errorf("event %d: got %s %d->%d, want %s %d->%d", i, ev.Type, ev.From, ev.To, w.typ, w.from, w.to)
		}
	}

	for i, payload := range publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Temperature.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Temperature.Event == "" {
			t.Errorf("payload %d: missing event", i)
		}
	}

	if len(publisher.Samples) != len(samples) {
		t.Errorf("expected %d readings, got %d", len(samples), len(publisher.Samples))
	}
	if got := sys.disp.Lines()[1]; got != "30.30C   86.54F " {
		t.Errorf("final display line: got %q", got)
	}
}

// TestIntegrationEveryRawValue checks that indicators and display agree with
// the conversion for the whole input range.
func TestIntegrationEveryRawValue(t *testing.T) {
	samples := make([]logic.RawSample, logic.MaxRaw+1)
	for i := range samples {
		samples[i] = logic.RawSample(i)
	}
	sys := newSystem(t, logic.DefaultThresholds, samples)

	prevBand := logic.Band(0)
	for raw := 0; raw <= logic.MaxRaw; raw++ {
		res, err := sys.loop.Step()
		if err != nil {
			t.Fatalf("raw %d: %v", raw, err)
		}
		if int(res.Reading.Raw) != raw {
			t.Fatalf("raw %d: sampled %d", raw, res.Reading.Raw)
		}

		for i, on := range sys.writer.Lines {
			want := res.Reading.Celsius >= logic.DefaultThresholds[i]
			if on != want {
				t.Fatalf("raw %d line %d: got %v, want %v", raw, i, on, want)
			}
		}

		band := res.Bank.Band()
		if band < prevBand {
			t.Fatalf("raw %d: band dropped from %d to %d on a rising input", raw, prevBand, band)
		}
		prevBand = band

		line := logic.FormatReading(res.Reading)
		if len(line) > 16 {
			line = line[:16]
		}
		if got := sys.disp.Lines()[1][:len(line)]; got != line {
			t.Fatalf("raw %d: display %q, want prefix %q", raw, got, line)
		}
	}

	if prevBand != logic.NumIndicators {
		t.Errorf("expected full scale to light every indicator, band %d", prevBand)
	}
}

// TestIntegrationConfigThresholds loads thresholds from a YAML file and
// drives the loop with them.
func TestIntegrationConfigThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("indicators:\n  thresholds: [10, 11, 12, 13, 14, 15, 16, 17]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	thresholds, err := cfg.Thresholds()
	if err != nil {
		t.Fatalf("Thresholds: %v", err)
	}

	// 14.66 C lights the first five
	sys := newSystem(t, thresholds, []logic.RawSample{30})
	res, err := sys.loop.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if res.Bank.String() != "#####..." {
		t.Errorf("bank: got %s, want #####...", res.Bank)
	}
}

// TestIntegrationStartupThenShutdown verifies the lifecycle events carry
// full status snapshots.
func TestIntegrationStartupThenShutdown(t *testing.T) {
	publisher := mqtt.NewFakePublisher()
	start := time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC)
	tracker := status.NewTracker(start, status.Config{
		Sampler:     "simulated",
		Thresholds:  logic.DefaultThresholds,
		Label:       display.Label,
		DelayMs:     1000,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
	})

	snap := tracker.Snapshot()
	publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})

	sys := newSystem(t, logic.DefaultThresholds, []logic.RawSample{164})
	res, err := sys.loop.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	detector := logic.NewDetector(start)
	detector.Process(res.Reading, res.Bank, start.Add(time.Second))
	tracker.Update(res.Reading, res.Bank, detector.EventCountsSnapshot())

	snap = tracker.Snapshot()
	publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     "SIGTERM",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"),
	})

	if len(publisher.SystemPayloads) != 2 {
		t.Fatalf("expected 2 system payloads, got %d", len(publisher.SystemPayloads))
	}

	var startup, shutdown status.StatusJSON
	if err := json.Unmarshal(publisher.SystemPayloads[0], &startup); err != nil {
		t.Fatalf("startup payload: %v", err)
	}
	if err := json.Unmarshal(publisher.SystemPayloads[1], &shutdown); err != nil {
		t.Fatalf("shutdown payload: %v", err)
	}

	if startup.Status.Event != "STARTUP" || startup.Status.Ready {
		t.Errorf("startup: got event=%q ready=%v", startup.Status.Event, startup.Status.Ready)
	}
	if startup.Status.Config.HeartbeatMs != 900000 {
		t.Errorf("startup heartbeat_ms: got %d", startup.Status.Config.HeartbeatMs)
	}

	if shutdown.Status.Event != "SHUTDOWN" || shutdown.Status.Reason != "SIGTERM" {
		t.Errorf("shutdown: got event=%q reason=%q", shutdown.Status.Event, shutdown.Status.Reason)
	}
	if shutdown.Status.Reading == nil || shutdown.Status.Reading.Band != 8 {
		t.Fatalf("shutdown reading: got %+v", shutdown.Status.Reading)
	}
	if shutdown.Status.Reading.Display[0] != display.Label {
		t.Errorf("shutdown display[0]: got %q", shutdown.Status.Reading.Display[0])
	}
	if shutdown.Status.Counts.Samples != 1 {
		t.Errorf("shutdown samples: got %d, want 1", shutdown.Status.Counts.Samples)
	}
}
