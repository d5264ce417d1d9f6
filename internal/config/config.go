// Package config loads the joypanel YAML configuration.
//
// The config file is the primary configuration surface; command-line flags
// override a few fields for ad-hoc debugging. Defaults and validation live
// here so the rest of the code can assume a well-formed config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sweeney/joypanel/internal/logic"
	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration.
type Config struct {
	TickMS      int `yaml:"tick_ms"`
	DebounceMS  int `yaml:"debounce_ms"`
	HeartbeatMS int `yaml:"heartbeat_ms"`

	Joystick JoystickConfig `yaml:"joystick"`
	Screen   ScreenConfig   `yaml:"screen"`
	PWM      PWMConfig      `yaml:"pwm"`
	GPIO     GPIOConfig     `yaml:"gpio"`
	I2C      I2CConfig      `yaml:"i2c"`
	ADC      ADCConfig      `yaml:"adc"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type JoystickConfig struct {
	ADCMax   int `yaml:"adc_max"`
	DeadZone int `yaml:"dead_zone"`
}

type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	SquareSize int `yaml:"square_size"`
}

type PWMConfig struct {
	Wrap        int    `yaml:"wrap"`
	FrequencyHz int    `yaml:"frequency_hz"`
	RedPin      string `yaml:"red_pin"`
	BluePin     string `yaml:"blue_pin"`
}

type GPIOConfig struct {
	Chip       string `yaml:"chip"`
	ButtonMode int    `yaml:"button_mode"`
	ButtonLEDs int    `yaml:"button_leds"`
	LEDGreen   int    `yaml:"led_green"`
}

type I2CConfig struct {
	Bus string `yaml:"bus"` // periph bus name, empty for the first bus
}

type ADCConfig struct {
	Address     uint16 `yaml:"address"`
	ChannelX    int    `yaml:"channel_x"`
	ChannelY    int    `yaml:"channel_y"`
	ReferenceMV int    `yaml:"reference_mv"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		TickMS:      100,
		DebounceMS:  int(logic.DefaultDebounceDelay / time.Millisecond),
		HeartbeatMS: 15 * 60 * 1000,
		Joystick: JoystickConfig{
			ADCMax:   logic.DefaultADCMax,
			DeadZone: logic.DefaultDeadZone,
		},
		Screen: ScreenConfig{
			Width:      logic.DefaultScreenWidth,
			Height:     logic.DefaultScreenHeight,
			SquareSize: logic.DefaultSquareSize,
		},
		PWM: PWMConfig{
			Wrap:        logic.DefaultWrap,
			FrequencyHz: 1000,
			RedPin:      "GPIO13",
			BluePin:     "GPIO12",
		},
		GPIO: GPIOConfig{
			Chip:       "gpiochip0",
			ButtonMode: 22,
			ButtonLEDs: 5,
			LEDGreen:   17,
		},
		I2C: I2CConfig{
			Bus: "",
		},
		ADC: ADCConfig{
			Address:     0x48,
			ChannelX:    1,
			ChannelY:    0,
			ReferenceMV: 3300,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected to catch typos.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments are allowed after the document.
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var problems []string

	if c.TickMS <= 0 {
		problems = append(problems, "tick_ms must be > 0")
	}
	if c.DebounceMS <= 0 {
		problems = append(problems, "debounce_ms must be > 0")
	}
	if c.HeartbeatMS < 0 {
		problems = append(problems, "heartbeat_ms must be >= 0")
	}
	if c.Joystick.ADCMax <= 0 {
		problems = append(problems, "joystick.adc_max must be > 0")
	}
	if c.Joystick.DeadZone < 0 || c.Joystick.DeadZone >= c.Joystick.ADCMax/2 {
		problems = append(problems, fmt.Sprintf("joystick.dead_zone must be in [0, %d)", c.Joystick.ADCMax/2))
	}
	if c.PWM.Wrap <= 0 {
		problems = append(problems, "pwm.wrap must be > 0")
	}
	if c.PWM.FrequencyHz <= 0 {
		problems = append(problems, "pwm.frequency_hz must be > 0")
	}
	// The square must fit inside the thickest border (3 pixels).
	if c.Screen.SquareSize <= 0 ||
		c.Screen.Width < c.Screen.SquareSize+6 ||
		c.Screen.Height < c.Screen.SquareSize+6 {
		problems = append(problems, "screen must fit the square inside a 3 pixel border")
	}
	if c.ADC.ReferenceMV <= 0 {
		problems = append(problems, "adc.reference_mv must be > 0")
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Tick returns the loop interval.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// Debounce returns the debounce delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Heartbeat returns the heartbeat interval; 0 disables it.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMS) * time.Millisecond
}

// Geometry returns the screen geometry.
func (c Config) Geometry() logic.Geometry {
	return logic.Geometry{
		Width:      c.Screen.Width,
		Height:     c.Screen.Height,
		SquareSize: c.Screen.SquareSize,
	}
}

// Mapper returns the dead-zone mapper for this config.
func (c Config) Mapper() logic.Mapper {
	return logic.NewMapper(c.Joystick.ADCMax, c.Joystick.DeadZone, c.PWM.Wrap, c.Geometry())
}
