// Package logic contains the pure control logic for the environment monitor.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode selects who drives the relays.
type Mode int

const (
	// ModeManual lets the buttons toggle the relays.
	ModeManual Mode = iota
	// ModeAutomatic lets the sensor thresholds drive the relays.
	ModeAutomatic
)

func (m Mode) String() string {
	if m == ModeAutomatic {
		return "AUTO"
	}
	return "MANUAL"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeAutomatic {
		return ModeManual
	}
	return ModeAutomatic
}

// RelayID identifies one of the two relays.
type RelayID int

const (
	RelayFan RelayID = iota
	RelayLight
)

func (r RelayID) String() string {
	switch r {
	case RelayFan:
		return "fan"
	case RelayLight:
		return "light"
	default:
		return "unknown"
	}
}

// Reading is the latest filtered snapshot of the sensors.
// Temperature and Pressure are filtered; Humidity and Light are raw.
type Reading struct {
	Temperature float64 // °C
	Humidity    float64 // %RH
	Pressure    float64 // hPa
	Light       uint32  // approximate lux, 0-1000
}

// Thresholds configure the automatic relay decision.
type Thresholds struct {
	Temperature float64 // fan on above this
	Light       uint32  // light on below this
	// Hysteresis widens the off side of both comparisons. Zero keeps the
	// strict stateless comparison.
	Hysteresis float64
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Temperature: 30.0,
		Light:       100,
	}
}

// Timing holds the button timing constants.
type Timing struct {
	Debounce  time.Duration
	LongPress time.Duration
}

// DefaultTiming returns the stock button timing.
func DefaultTiming() Timing {
	return Timing{
		Debounce:  100 * time.Millisecond,
		LongPress: 3000 * time.Millisecond,
	}
}
