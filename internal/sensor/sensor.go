// Package sensor reads the environmental sensors: a BME280 on I2C for
// temperature, humidity and pressure, and an IIO light channel.
package sensor

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sweeney/envmon/internal/control"
)

// Config selects the sensor hardware.
type Config struct {
	// I2CBus names the bus; empty opens the first one found.
	I2CBus string
	// BME280Addr is the 7-bit I2C address (0x76 or 0x77).
	BME280Addr uint16
	// LightPath is the sysfs file holding the raw light reading.
	LightPath string
	// LightScale converts raw light counts to approximate lux.
	LightScale float64
}

// DefaultConfig returns the stock sensor wiring.
func DefaultConfig() Config {
	return Config{
		BME280Addr: 0x76,
		LightPath:  "/sys/bus/iio/devices/iio:device0/in_illuminance_raw",
		LightScale: 1.0,
	}
}

// MaxLux is the top of the reported light range.
const MaxLux = 1000

// Plausible ranges of the BME280; anything outside is bad data.
const (
	minTempC = -40.0
	maxTempC = 85.0
	minPa    = 30000.0
	maxPa    = 110000.0
)

func checkTempHumidity(temp, humidity float64) error {
	if math.IsNaN(temp) || temp < minTempC || temp > maxTempC {
		return badData(control.SensorTempHumidity, "temperature %.2f out of range", temp)
	}
	if math.IsNaN(humidity) || humidity < 0 || humidity > 100 {
		return badData(control.SensorTempHumidity, "humidity %.2f out of range", humidity)
	}
	return nil
}

func checkPressure(pa float64) error {
	if math.IsNaN(pa) || pa < minPa || pa > maxPa {
		return badData(control.SensorPressure, "pressure %.0f Pa out of range", pa)
	}
	return nil
}

func badData(sensor, format string, args ...any) error {
	return &control.SensorError{Sensor: sensor, Kind: control.KindBadData, Err: fmt.Errorf(format, args...)}
}

// readLightFile reads a raw integer count from path and scales it to lux,
// clamped to [0, MaxLux].
func readLightFile(path string, scale float64) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &control.SensorError{Sensor: control.SensorLight, Kind: control.KindBus, Err: err}
	}
	raw, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, &control.SensorError{Sensor: control.SensorLight, Kind: control.KindBadData, Err: err}
	}
	lux := math.Round(float64(raw) * scale)
	if lux > MaxLux {
		lux = MaxLux
	}
	if lux < 0 {
		lux = 0
	}
	return uint32(lux), nil
}
