// Package config loads the monitor configuration from YAML over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/envmon/internal/gpio"
	"github.com/sweeney/envmon/internal/logic"
	"github.com/sweeney/envmon/internal/sensor"
)

// MaxButtonPoll is the slowest button poll period that still honours the
// debounce window.
const MaxButtonPoll = 20 * time.Millisecond

// Config is the full monitor configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	FilterSize int              `yaml:"filter_size"`
	Timing     TimingConfig     `yaml:"timing"`
	GPIO       GPIOConfig       `yaml:"gpio"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	LogLevel   string           `yaml:"log_level"`
}

// ThresholdsConfig holds the automatic-mode thresholds.
type ThresholdsConfig struct {
	Temperature float64 `yaml:"temperature_c"`
	Light       uint32  `yaml:"light_lux"`
	Hysteresis  float64 `yaml:"hysteresis"`
}

// TimingConfig holds loop periods and button timing.
type TimingConfig struct {
	SensorPoll time.Duration `yaml:"sensor_poll"`
	ButtonPoll time.Duration `yaml:"button_poll"`
	Debounce   time.Duration `yaml:"debounce"`
	LongPress  time.Duration `yaml:"long_press"`
}

// GPIOConfig holds the chip and line numbers.
type GPIOConfig struct {
	Chip           string `yaml:"chip"`
	SW3            int    `yaml:"sw3"`
	SW4            int    `yaml:"sw4"`
	Fan            int    `yaml:"fan"`
	Light          int    `yaml:"light"`
	RelayActiveLow bool   `yaml:"relay_active_low"`
}

// SensorsConfig holds the sensor wiring.
type SensorsConfig struct {
	I2CBus     string  `yaml:"i2c_bus"`
	BME280Addr uint16  `yaml:"bme280_addr"`
	LightPath  string  `yaml:"light_path"`
	LightScale float64 `yaml:"light_scale"`
}

// MQTTConfig configures the optional status mirror. An empty broker
// disables it.
type MQTTConfig struct {
	Broker   string        `yaml:"broker"`
	ClientID string        `yaml:"client_id"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the stock configuration.
func Default() Config {
	th := logic.DefaultThresholds()
	tm := logic.DefaultTiming()
	pins := gpio.DefaultPins()
	sc := sensor.DefaultConfig()
	return Config{
		Thresholds: ThresholdsConfig{
			Temperature: th.Temperature,
			Light:       th.Light,
			Hysteresis:  th.Hysteresis,
		},
		FilterSize: 5,
		Timing: TimingConfig{
			SensorPoll: 100 * time.Millisecond,
			ButtonPoll: 10 * time.Millisecond,
			Debounce:   tm.Debounce,
			LongPress:  tm.LongPress,
		},
		GPIO: GPIOConfig{
			Chip:           pins.Chip,
			SW3:            pins.SW3,
			SW4:            pins.SW4,
			Fan:            pins.Fan,
			Light:          pins.Light,
			RelayActiveLow: pins.RelayActiveLow,
		},
		Sensors: SensorsConfig{
			I2CBus:     sc.I2CBus,
			BME280Addr: sc.BME280Addr,
			LightPath:  sc.LightPath,
			LightScale: sc.LightScale,
		},
		MQTT: MQTTConfig{
			ClientID: "envmon",
			Interval: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf(format, args...))
	}

	if c.FilterSize < 1 {
		add("filter_size must be at least 1, got %d", c.FilterSize)
	}
	if c.Thresholds.Hysteresis < 0 {
		add("thresholds.hysteresis must not be negative, got %v", c.Thresholds.Hysteresis)
	}
	if c.Timing.SensorPoll <= 0 {
		add("timing.sensor_poll must be positive, got %v", c.Timing.SensorPoll)
	}
	if c.Timing.ButtonPoll <= 0 || c.Timing.ButtonPoll > MaxButtonPoll {
		add("timing.button_poll must be in (0, %v], got %v", MaxButtonPoll, c.Timing.ButtonPoll)
	}
	if c.Timing.Debounce <= 0 {
		add("timing.debounce must be positive, got %v", c.Timing.Debounce)
	}
	if c.Timing.LongPress <= 0 {
		add("timing.long_press must be positive, got %v", c.Timing.LongPress)
	}
	if c.Sensors.LightScale <= 0 {
		add("sensors.light_scale must be positive, got %v", c.Sensors.LightScale)
	}
	if c.MQTT.Broker != "" && c.MQTT.Interval <= 0 {
		add("mqtt.interval must be positive, got %v", c.MQTT.Interval)
	}

	seen := make(map[int]string)
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"sw3", c.GPIO.SW3},
		{"sw4", c.GPIO.SW4},
		{"fan", c.GPIO.Fan},
		{"light", c.GPIO.Light},
	} {
		if p.pin < 0 {
			add("gpio.%s must not be negative, got %d", p.name, p.pin)
			continue
		}
		if other, ok := seen[p.pin]; ok {
			add("gpio.%s and gpio.%s share line %d", other, p.name, p.pin)
			continue
		}
		seen[p.pin] = p.name
	}

	if errs != nil {
		return errors.Join(ErrInvalid, errs)
	}
	return nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// LogicThresholds returns the automatic-mode thresholds.
func (c Config) LogicThresholds() logic.Thresholds {
	return logic.Thresholds{
		Temperature: c.Thresholds.Temperature,
		Light:       c.Thresholds.Light,
		Hysteresis:  c.Thresholds.Hysteresis,
	}
}

// LogicTiming returns the button timing.
func (c Config) LogicTiming() logic.Timing {
	return logic.Timing{Debounce: c.Timing.Debounce, LongPress: c.Timing.LongPress}
}

// Pins returns the GPIO wiring.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{
		Chip:           c.GPIO.Chip,
		SW3:            c.GPIO.SW3,
		SW4:            c.GPIO.SW4,
		Fan:            c.GPIO.Fan,
		Light:          c.GPIO.Light,
		RelayActiveLow: c.GPIO.RelayActiveLow,
	}
}

// SensorConfig returns the sensor wiring.
func (c Config) SensorConfig() sensor.Config {
	return sensor.Config{
		I2CBus:     c.Sensors.I2CBus,
		BME280Addr: c.Sensors.BME280Addr,
		LightPath:  c.Sensors.LightPath,
		LightScale: c.Sensors.LightScale,
	}
}
