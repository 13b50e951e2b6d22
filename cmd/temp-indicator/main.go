// Command temp-indicator samples a temperature sensor, drives an eight-line
// indicator bank and a two-line display, and publishes readings to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"github.com/sweeney/temp-indicator/internal/web"
)

type options struct {
	configPath  string
	writeConfig string
	simulate    bool
	printState  bool
	broker      string
	httpAddr    string
	heartbeat   time.Duration
	delay       time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "/etc/temp-indicator.yaml", "Path to YAML config file")
	flag.StringVar(&opts.writeConfig, "write-config", "", "Write the effective config to this path and exit")
	flag.BoolVar(&opts.simulate, "simulate", false, "Use a simulated sensor and indicator bank")
	flag.BoolVar(&opts.printState, "print-state", false, "Print one reading and exit")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address (overrides config, empty disables)")
	flag.StringVar(&opts.httpAddr, "http", "", "HTTP status address (overrides config)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 0, "Heartbeat interval (overrides config, 0 disables)")
	flag.DurationVar(&opts.delay, "delay", 0, "Delay between iterations (overrides config)")

	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyFlags(cfg, opts, setFlags())

	if opts.writeConfig != "" {
		if err := writeConfig(cfg, opts.writeConfig); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		log.Printf("wrote config to %s", opts.writeConfig)
		return
	}

	if err := run(cfg, opts.simulate, opts.printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cfg *config.Config, opts options, set map[string]bool) {
	if set["broker"] {
		cfg.MQTT.Broker = opts.broker
	}
	if set["http"] {
		cfg.HTTP.Addr = opts.httpAddr
	}
	if set["heartbeat"] {
		cfg.MQTT.Heartbeat = opts.heartbeat
	}
	if set["delay"] && opts.delay > 0 {
		cfg.Loop.Delay = opts.delay
	}
}

// writeConfig saves cfg after checking it would load back.
func writeConfig(cfg *config.Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return cfg.Save(path)
}

func run(cfg *config.Config, simulate, printState bool) error {
	thresholds, err := cfg.Thresholds()
	if err != nil {
		return err
	}

	// Initialize the sensor
	var sampler adc.Sampler
	samplerName := "simulated"
	if simulate {
		sampler = adc.NewSweepSampler(8)
	} else {
		s, err := adc.OpenSerial(cfg.Sensor.Port, cfg.Sensor.BaudRate, cfg.Sensor.ReadTimeout)
		if err != nil {
			return fmt.Errorf("init sensor: %w", err)
		}
		sampler = s
		samplerName = "serial:" + cfg.Sensor.Port
	}
	defer sampler.Close()

	ch := logic.Channel(cfg.Sensor.Channel)

	// Print state mode
	if printState {
		raw, err := sampler.Sample(ch)
		if err != nil {
			return fmt.Errorf("sample channel %d: %w", ch, err)
		}
		fmt.Println(stateString(logic.NewReading(raw), thresholds))
		return nil
	}

	// Initialize indicator outputs
	var writer gpio.Writer
	if simulate {
		writer = gpio.NewFakeWriter(logic.NumIndicators)
	} else {
		w, err := gpio.NewRealWriter(cfg.Indicators.Chip, cfg.Indicators.Lines)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		writer = w
	}
	defer writer.Close()

	ind, err := indicator.New(writer, thresholds)
	if err != nil {
		return err
	}
	presenter := display.NewPresenter(display.NewConsole(os.Stdout, cfg.Display.Width, cfg.Display.Height), cfg.Display.Label)
	loop := control.New(sampler, ind, presenter, ch, cfg.Loop.Delay)
	if err := loop.Init(); err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Sampler:     samplerName,
		Channel:     cfg.Sensor.Channel,
		Thresholds:  thresholds,
		Label:       cfg.Display.Label,
		DelayMs:     loop.Delay().Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, mqttStatus = p, p

		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: sampler=%s channel=%d delay=%v broker=%q heartbeat=%v",
		samplerName, ch, loop.Delay(), cfg.MQTT.Broker, cfg.MQTT.Heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loop, publisher, mqttStatus, tracker, cfg.MQTT.Heartbeat, time.Now, time.After, sigCh)
}

// runLoop steps the control loop, publishes what it observes and pauses
// between iterations until a signal arrives. publisher, mqttStatus and
// tracker may be nil.
func runLoop(loop *control.Loop, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, after func(time.Duration) <-chan time.Time, sig <-chan os.Signal) error {
	detector := logic.NewDetector(now())

	for {
		res, err := loop.Step()
		t := now()
		if err != nil {
			log.Printf("iteration error: %v", err)
			if tracker != nil {
				tracker.RecordError(err)
			}
		}

		if res.Sampled {
			baselined := detector.IsBaselined()
			events := detector.Process(res.Reading, res.Bank, t)
			if !baselined {
				log.Printf("baseline: band %d (%s)", detector.CurrentBand(), logic.FormatReading(detector.LastReading()))
			}
			for _, event := range events {
				log.Printf("event: %s band %d -> %d (%s)", event.Type, event.From, event.To, logic.FormatReading(event.Reading))
				if publisher != nil {
					if err := publisher.Publish(event); err != nil {
						log.Printf("publish error: %v", err)
					}
				}
			}

			if publisher != nil {
				if err := publisher.PublishReading(mqtt.Sample{Timestamp: t, Reading: res.Reading, Bank: res.Bank}); err != nil {
					log.Printf("publish reading error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(res.Reading, res.Bank, detector.EventCountsSnapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hbData := detector.CheckHeartbeat(t, heartbeat); hbData != nil && publisher != nil {
				log.Printf("heartbeat: uptime=%v rise=%d fall=%d samples=%d",
					hbData.Uptime, hbData.Counts.Rise, hbData.Counts.Fall, hbData.Counts.Samples)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}

		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			shutdown(s, publisher, mqttStatus, tracker, now)
			return nil
		case <-after(loop.Delay()):
		}
	}
}

func shutdown(s os.Signal, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time) {
	if publisher == nil {
		return
	}
	signalName := signalString(s)
	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func signalString(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// stateString renders a single reading for -print-state, e.g.
// "raw=82 40.07C   104.14F indicators=###..... band=3".
func stateString(r logic.Reading, t logic.Thresholds) string {
	bank := logic.Evaluate(r.Celsius, t)
	return fmt.Sprintf("raw=%d %s indicators=%s band=%d", r.Raw, logic.FormatReading(r), bank, bank.Band())
}
