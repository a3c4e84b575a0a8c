package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/taiko-sensor/internal/gpio"
	"github.com/sweeney/taiko-sensor/internal/hit"
	"github.com/sweeney/taiko-sensor/internal/keys"
	"github.com/sweeney/taiko-sensor/internal/led"
	"github.com/sweeney/taiko-sensor/internal/link"
)

// Config is the YAML configuration for the daemon. The file is the primary
// configuration surface; flags exist for ad-hoc overrides.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Detection DetectionConfig `yaml:"detection"`
	Keys      KeysConfig      `yaml:"keys"`
	MIDI      MIDIConfig      `yaml:"midi"`
	LEDs      LEDConfig       `yaml:"leds"`
	Button    ButtonConfig    `yaml:"button"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// SerialConfig locates the drum MCU link.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// DetectionConfig tunes the hit arbiter.
type DetectionConfig struct {
	WindowMs  float64 `yaml:"window_ms"`
	HoldMs    float64 `yaml:"hold_ms"`
	Threshold int     `yaml:"threshold"`
}

// KeysConfig binds pads to keyboard keys, left rim to right rim.
type KeysConfig struct {
	Enabled bool     `yaml:"enabled"`
	Binding []string `yaml:"binding"`
}

// MIDIConfig optionally mirrors hits to a MIDI output.
type MIDIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port,omitempty"` // substring match; empty picks the first output
	Channel uint8  `yaml:"channel"`
	Notes   []int  `yaml:"notes"`
}

// LEDConfig describes the feedback strip, one region and color per pad.
// An end below its start parks that pad off-strip.
type LEDConfig struct {
	Enabled bool           `yaml:"enabled"`
	Regions []RegionConfig `yaml:"regions"`
	Colors  []string       `yaml:"colors"`
}

// RegionConfig is one pad's inclusive LED range.
type RegionConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// ButtonConfig is the function button (LED mute / release-all). Pin -1
// disables it.
type ButtonConfig struct {
	Pin int `yaml:"pin"`
}

// MQTTConfig enables telemetry publishing. An empty broker disables MQTT.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// HTTPConfig enables the status page. An empty addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig matches the original drum build: 33-LED ring, d/f/j/k keys,
// percussion notes on channel 10.
func DefaultConfig() Config {
	ledCfg := led.DefaultConfig()
	cfg := Config{
		Serial: SerialConfig{
			Device: "/dev/ttyACM0",
			Baud:   link.DefaultBaud,
		},
		Detection: DetectionConfig{
			WindowMs:  5,
			HoldMs:    20,
			Threshold: 15,
		},
		Keys: KeysConfig{
			Enabled: true,
			Binding: keys.DefaultBinding[:],
		},
		MIDI: MIDIConfig{
			Enabled: false,
			Channel: 9,
		},
		LEDs: LEDConfig{
			Enabled: true,
		},
		Button: ButtonConfig{
			Pin: gpio.DefaultPinButton,
		},
		MQTT: MQTTConfig{
			Broker: "tcp://192.168.1.200:1883",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
	for _, n := range keys.DefaultNotes {
		cfg.MIDI.Notes = append(cfg.MIDI.Notes, int(n))
	}
	for i, r := range ledCfg.Regions {
		cfg.LEDs.Regions = append(cfg.LEDs.Regions, RegionConfig{Start: r.Start, End: r.End})
		c := ledCfg.Colors[i]
		cfg.LEDs.Colors = append(cfg.LEDs.Colors, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return cfg
}

// LoadConfigFile reads a YAML config over the defaults. Unknown fields are
// rejected to catch typos.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks config invariants after defaults, file and flag overrides
// have all been applied.
func (c *Config) Validate() error {
	if c.Serial.Device == "" {
		return errors.New("serial.device must not be empty")
	}
	if c.Serial.Baud <= 0 {
		return errors.New("serial.baud must be > 0")
	}

	if c.Detection.WindowMs <= 0 {
		return errors.New("detection.window_ms must be > 0")
	}
	if c.Detection.HoldMs <= 0 {
		return errors.New("detection.hold_ms must be > 0")
	}
	if c.Detection.Threshold < 1 || c.Detection.Threshold > 1023 {
		return errors.New("detection.threshold must be between 1 and 1023")
	}

	if c.Keys.Enabled {
		if len(c.Keys.Binding) != hit.NumButtons {
			return fmt.Errorf("keys.binding must have %d entries", hit.NumButtons)
		}
		for i, k := range c.Keys.Binding {
			if k == "" {
				return fmt.Errorf("keys.binding[%d] is empty", i)
			}
		}
	}

	if c.MIDI.Enabled {
		if c.MIDI.Channel > 15 {
			return errors.New("midi.channel must be between 0 and 15")
		}
		if len(c.MIDI.Notes) != hit.NumButtons {
			return fmt.Errorf("midi.notes must have %d entries", hit.NumButtons)
		}
		for i, n := range c.MIDI.Notes {
			if n < 1 || n > 127 {
				return fmt.Errorf("midi.notes[%d] must be between 1 and 127", i)
			}
		}
	}

	if !c.Keys.Enabled && !c.MIDI.Enabled {
		return errors.New("at least one of keys or midi must be enabled")
	}

	if c.LEDs.Enabled {
		if _, err := c.LEDConfig(); err != nil {
			return err
		}
	}

	if c.Button.Pin < -1 {
		return errors.New("button.pin must be >= 0, or -1 to disable")
	}

	return nil
}

// LEDConfig converts the YAML strip description into the driver's config,
// parsing colors and checking region overlap.
func (c *Config) LEDConfig() (led.Config, error) {
	var cfg led.Config
	if len(c.LEDs.Regions) != hit.NumButtons {
		return cfg, fmt.Errorf("leds.regions must have %d entries", hit.NumButtons)
	}
	if len(c.LEDs.Colors) != hit.NumButtons {
		return cfg, fmt.Errorf("leds.colors must have %d entries", hit.NumButtons)
	}
	for i, r := range c.LEDs.Regions {
		cfg.Regions[i] = led.Region{Start: r.Start, End: r.End}
	}
	for i, s := range c.LEDs.Colors {
		color, err := led.ParseColor(s)
		if err != nil {
			return cfg, fmt.Errorf("leds.colors[%d]: %w", i, err)
		}
		cfg.Colors[i] = color
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("leds.regions: %w", err)
	}
	return cfg, nil
}

// BindingArray returns the pad-to-key binding as a fixed array.
func (c *Config) BindingArray() [hit.NumButtons]string {
	var b [hit.NumButtons]string
	copy(b[:], c.Keys.Binding)
	return b
}

// NotesArray returns the pad-to-note mapping as a fixed array.
func (c *Config) NotesArray() [hit.NumButtons]uint8 {
	var n [hit.NumButtons]uint8
	for i := 0; i < hit.NumButtons && i < len(c.MIDI.Notes); i++ {
		n[i] = uint8(c.MIDI.Notes[i])
	}
	return n
}

// Window returns the detection window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Detection.WindowMs * float64(time.Millisecond))
}

// Hold returns the release hold as a duration.
func (c *Config) Hold() time.Duration {
	return time.Duration(c.Detection.HoldMs * float64(time.Millisecond))
}
