// Package config loads the temp-indicator configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/temp-indicator/internal/adc"
	"github.com/sweeney/temp-indicator/internal/control"
	"github.com/sweeney/temp-indicator/internal/display"
	"github.com/sweeney/temp-indicator/internal/gpio"
	"github.com/sweeney/temp-indicator/internal/logic"
)

// Config represents the application configuration.
// The file is read once at startup; nothing in it changes while the loop runs.
type Config struct {
	Sensor     SensorConfig    `yaml:"sensor"`
	Indicators IndicatorConfig `yaml:"indicators"`
	Display    DisplayConfig   `yaml:"display"`
	Loop       LoopConfig      `yaml:"loop"`
	MQTT       MQTTConfig      `yaml:"mqtt"`
	HTTP       HTTPConfig      `yaml:"http"`
}

// SensorConfig describes the analog input and the ADC bridge it is read through.
type SensorConfig struct {
	Channel     uint8         `yaml:"channel"`
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"` // 0 blocks until the bridge answers
}

// IndicatorConfig describes the eight output lines and their thresholds.
type IndicatorConfig struct {
	Chip       string    `yaml:"chip"`
	Lines      []int     `yaml:"lines"`      // green1..green3, yellow1..yellow3, red1, red2
	Thresholds []float64 `yaml:"thresholds"` // Celsius, strictly increasing
}

// DisplayConfig describes the character display.
type DisplayConfig struct {
	Label  string `yaml:"label"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// LoopConfig contains control loop timing.
type LoopConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// MQTTConfig contains publishing parameters. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	ClientID  string        `yaml:"client_id"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTPConfig contains the status server address. Empty disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Channel:  0,
			Port:     "/dev/ttyACM0",
			BaudRate: adc.DefaultBaudRate,
		},
		Indicators: IndicatorConfig{
			Chip:       gpio.DefaultChip,
			Lines:      append([]int(nil), gpio.DefaultOffsets...),
			Thresholds: append([]float64(nil), logic.DefaultThresholds[:]...),
		},
		Display: DisplayConfig{
			Label:  display.Label,
			Width:  16,
			Height: 2,
		},
		Loop: LoopConfig{
			Delay: control.DefaultDelay,
		},
		MQTT: MQTTConfig{
			ClientID:  "temp-indicator",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values. The result is validated.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the hardware identity and thresholds.
func (c *Config) Validate() error {
	if c.Sensor.Channel > 15 {
		return fmt.Errorf("sensor.channel %d out of range (0-15)", c.Sensor.Channel)
	}

	if _, err := c.Thresholds(); err != nil {
		return err
	}

	if len(c.Indicators.Lines) != logic.NumIndicators {
		return fmt.Errorf("indicators.lines: need %d lines, got %d", logic.NumIndicators, len(c.Indicators.Lines))
	}
	seen := make(map[int]bool, len(c.Indicators.Lines))
	for _, l := range c.Indicators.Lines {
		if l < 0 {
			return fmt.Errorf("indicators.lines: negative line %d", l)
		}
		if seen[l] {
			return fmt.Errorf("indicators.lines: line %d listed twice", l)
		}
		seen[l] = true
	}

	if c.Display.Width < 1 || c.Display.Height < 2 {
		return fmt.Errorf("display: need at least 1x2 characters, got %dx%d", c.Display.Width, c.Display.Height)
	}

	if c.Loop.Delay <= 0 {
		return fmt.Errorf("loop.delay must be positive, got %v", c.Loop.Delay)
	}

	return nil
}

// Thresholds returns the indicator thresholds as a fixed-size array.
func (c *Config) Thresholds() (logic.Thresholds, error) {
	var t logic.Thresholds
	if len(c.Indicators.Thresholds) != logic.NumIndicators {
		return t, fmt.Errorf("indicators.thresholds: need %d values, got %d", logic.NumIndicators, len(c.Indicators.Thresholds))
	}
	copy(t[:], c.Indicators.Thresholds)
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("indicators.thresholds: %w", err)
	}
	return t, nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sensor.BaudRate == 0 {
		c.Sensor.BaudRate = def.Sensor.BaudRate
	}

	if c.Indicators.Chip == "" {
		c.Indicators.Chip = def.Indicators.Chip
	}
	if len(c.Indicators.Lines) == 0 {
		c.Indicators.Lines = def.Indicators.Lines
	}
	if len(c.Indicators.Thresholds) == 0 {
		c.Indicators.Thresholds = def.Indicators.Thresholds
	}

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}

	if c.Loop.Delay == 0 {
		c.Loop.Delay = def.Loop.Delay
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
}
