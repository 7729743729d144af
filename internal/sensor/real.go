package sensor

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/devices/bmxx80"
	"periph.io/x/periph/host"

	"github.com/sweeney/envmon/internal/control"
)

// Real reads a BME280 through periph and light from a sysfs file.
//
// One BME280 measurement yields all three values, so ReadTempHumidity caches
// the pressure for the ReadPressure call that follows it in the same tick.
type Real struct {
	mu  sync.Mutex
	log *zap.Logger
	cfg Config
	bus i2c.BusCloser
	dev *bmxx80.Dev

	pending    bool
	pendingEnv physic.Env
}

// NewReal initialises the host drivers, opens the I2C bus and the BME280.
func NewReal(cfg Config, log *zap.Logger) (*Real, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}

	dev, err := bmxx80.NewI2C(bus, cfg.BME280Addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open bme280 at %#x: %w", cfg.BME280Addr, err)
	}

	log.Info("sensors ready",
		zap.String("bme280", dev.String()),
		zap.String("light", cfg.LightPath))

	return &Real{log: log, cfg: cfg, bus: bus, dev: dev}, nil
}

func (r *Real) sense() (physic.Env, error) {
	var e physic.Env
	if err := r.dev.Sense(&e); err != nil {
		return e, err
	}
	return e, nil
}

// ReadTempHumidity implements control.SensorSource.
func (r *Real) ReadTempHumidity() (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.sense()
	if err != nil {
		r.pending = false
		return 0, 0, &control.SensorError{Sensor: control.SensorTempHumidity, Kind: control.KindBus, Err: err}
	}
	r.pending = true
	r.pendingEnv = e

	temp := celsius(e.Temperature)
	hum := percentRH(e.Humidity)
	if err := checkTempHumidity(temp, hum); err != nil {
		return 0, 0, err
	}
	return temp, hum, nil
}

// ReadPressure implements control.SensorSource.
func (r *Real) ReadPressure() (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.pendingEnv
	if !r.pending {
		var err error
		if e, err = r.sense(); err != nil {
			return 0, &control.SensorError{Sensor: control.SensorPressure, Kind: control.KindBus, Err: err}
		}
	}
	r.pending = false

	pa := pascal(e.Pressure)
	if err := checkPressure(pa); err != nil {
		return 0, err
	}
	return pa, nil
}

// ReadLight implements control.SensorSource.
func (r *Real) ReadLight() (uint32, error) {
	return readLightFile(r.cfg.LightPath, r.cfg.LightScale)
}

// Close halts the BME280 and closes the bus.
func (r *Real) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if err := r.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt bme280: %w", err))
	}
	if err := r.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func celsius(t physic.Temperature) float64 {
	return float64(t-physic.ZeroCelsius) / float64(physic.Celsius)
}

func pascal(p physic.Pressure) float64 {
	return float64(p) / float64(physic.Pascal)
}

func percentRH(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}
