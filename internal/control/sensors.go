package control

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/sweeney/envmon/internal/logic"
)

// SensorLoop samples the sensors once per tick, filters temperature and
// pressure, applies the automatic decision and renders the display.
type SensorLoop struct {
	state   *State
	source  SensorSource
	relays  ActuatorSink
	display DisplaySink
	th      logic.Thresholds

	temp     *logic.MovingAverage
	pressure *logic.MovingAverage
	last     logic.Reading
	faults   Faults
}

// NewSensorLoop creates a SensorLoop with independent filters of depth filterSize.
func NewSensorLoop(state *State, source SensorSource, relays ActuatorSink, display DisplaySink, th logic.Thresholds, filterSize int) *SensorLoop {
	return &SensorLoop{
		state:    state,
		source:   source,
		relays:   relays,
		display:  display,
		th:       th,
		temp:     logic.NewMovingAverage(filterSize),
		pressure: logic.NewMovingAverage(filterSize),
	}
}

// Tick runs one sensor cycle. A failed sensor keeps its previous value and
// the rest of the cycle proceeds; the failures are returned combined (see
// multierr.Errors) for the caller to log. The display is rendered on every
// tick regardless of failures.
func (l *SensorLoop) Tick() error {
	var errs error
	r := l.last

	if temp, hum, err := l.source.ReadTempHumidity(); err != nil {
		l.faults.TempHumidity++
		errs = multierr.Append(errs, sensorError(SensorTempHumidity, err))
	} else {
		l.faults.TempHumidity = 0
		r.Temperature = l.temp.Push(temp)
		r.Humidity = hum
	}

	if pa, err := l.source.ReadPressure(); err != nil {
		l.faults.Pressure++
		errs = multierr.Append(errs, sensorError(SensorPressure, err))
	} else {
		l.faults.Pressure = 0
		r.Pressure = l.pressure.Push(pa / 100)
	}

	if lux, err := l.source.ReadLight(); err != nil {
		l.faults.Light++
		errs = multierr.Append(errs, sensorError(SensorLight, err))
	} else {
		l.faults.Light = 0
		r.Light = lux
	}

	l.last = r
	snap := l.state.Commit(r, l.faults, l.th, l.relays)
	l.display.Render(snap)
	return errs
}

// Last returns the reading committed by the most recent tick.
func (l *SensorLoop) Last() logic.Reading {
	return l.last
}

func sensorError(sensor string, err error) *SensorError {
	var se *SensorError
	if errors.As(err, &se) {
		if se.Sensor == "" {
			return &SensorError{Sensor: sensor, Kind: se.Kind, Err: se.Err}
		}
		return se
	}
	return &SensorError{Sensor: sensor, Kind: KindBus, Err: err}
}
