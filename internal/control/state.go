package control

import (
	"sync"

	"github.com/sweeney/envmon/internal/logic"
)

// Faults counts consecutive failed reads per sensor. A successful read
// resets the sensor's count.
type Faults struct {
	TempHumidity int
	Pressure     int
	Light        int
}

// Snapshot is a point-in-time view of the control state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Mode    logic.Mode
	FanOn   bool
	LightOn bool
	Reading logic.Reading
	Faults  Faults
}

// Relay returns the level of the given relay.
func (s Snapshot) Relay(id logic.RelayID) bool {
	if id == logic.RelayLight {
		return s.LightOn
	}
	return s.FanOn
}

// State is the single source of truth shared by the button machine and the
// sensor loop. Every mutation happens under mu, and relay commands are issued
// while mu is held so the actuator never sees writes out of order.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns a state in Manual mode with both relays off.
func NewState() *State {
	return &State{}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Mode returns the current mode.
func (s *State) Mode() logic.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Mode
}

// ToggleRelay flips relay id and pushes it to sink, but only in Manual mode.
// It returns the new level and whether the toggle was applied.
func (s *State) ToggleRelay(id logic.RelayID, sink ActuatorSink) (on, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Mode != logic.ModeManual {
		return s.snap.Relay(id), false
	}

	switch id {
	case logic.RelayFan:
		s.snap.FanOn = !s.snap.FanOn
		on = s.snap.FanOn
	case logic.RelayLight:
		s.snap.LightOn = !s.snap.LightOn
		on = s.snap.LightOn
	default:
		return false, false
	}
	sink.SetRelay(id, on)
	return on, true
}

// FlipMode switches between Manual and Automatic and returns the new state.
// Relay levels are left as they are.
func (s *State) FlipMode() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Mode = s.snap.Mode.Toggle()
	return s.snap
}

// Commit stores a new reading and fault counts. In Automatic mode it also
// recomputes both relays from th and pushes them to sink.
func (s *State) Commit(r logic.Reading, faults Faults, th logic.Thresholds, sink ActuatorSink) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Reading = r
	s.snap.Faults = faults

	if s.snap.Mode == logic.ModeAutomatic {
		fan, light := logic.Decide(th, r.Temperature, r.Light, s.snap.FanOn, s.snap.LightOn)
		s.snap.FanOn = fan
		s.snap.LightOn = light
		sink.SetRelay(logic.RelayFan, fan)
		sink.SetRelay(logic.RelayLight, light)
	}
	return s.snap
}

// Sync pushes the current relay levels to sink, e.g. at startup.
func (s *State) Sync(sink ActuatorSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sink.SetRelay(logic.RelayFan, s.snap.FanOn)
	sink.SetRelay(logic.RelayLight, s.snap.LightOn)
}

// AllOff switches both relays off, pushes them to sink and returns the new
// state. Used on shutdown.
func (s *State) AllOff(sink ActuatorSink) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.FanOn = false
	s.snap.LightOn = false
	sink.SetRelay(logic.RelayFan, false)
	sink.SetRelay(logic.RelayLight, false)
	return s.snap
}
