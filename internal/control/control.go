// Package control owns the shared control state and the two activities that
// mutate it: the button state machine and the sensor loop.
//
// Collaborators (sensors, relays, display) are reached through the small
// interfaces below so both activities can run against fakes in tests.
package control

import (
	"fmt"

	"github.com/sweeney/envmon/internal/logic"
)

// SensorSource reads the environmental sensors.
type SensorSource interface {
	// ReadTempHumidity returns temperature in °C and relative humidity in %.
	ReadTempHumidity() (temp, humidity float64, err error)
	// ReadPressure returns pressure in Pa.
	ReadPressure() (float64, error)
	// ReadLight returns light in approximate lux (0-1000).
	ReadLight() (uint32, error)
}

// ActuatorSink drives the relays. SetRelay is idempotent and never fails at
// this layer; adapters report hardware errors themselves.
type ActuatorSink interface {
	SetRelay(id logic.RelayID, on bool)
}

// DisplaySink renders a status snapshot. Implementations must be safe for
// concurrent use: both activities render.
type DisplaySink interface {
	Render(snap Snapshot)
}

// Sensor names used in errors and fault counters.
const (
	SensorTempHumidity = "temp_humidity"
	SensorPressure     = "pressure"
	SensorLight        = "light"
)

// ErrorKind classifies a sensor failure.
type ErrorKind string

const (
	KindBus     ErrorKind = "bus"
	KindTimeout ErrorKind = "timeout"
	KindBadData ErrorKind = "bad-data"
)

// SensorError is a failed read of one sensor. It is recovered locally by
// keeping the previous value for that sensor.
type SensorError struct {
	Sensor string
	Kind   ErrorKind
	Err    error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("sensor %s: %s: %v", e.Sensor, e.Kind, e.Err)
}

func (e *SensorError) Unwrap() error {
	return e.Err
}
