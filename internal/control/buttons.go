package control

import (
	"time"

	"github.com/sweeney/envmon/internal/logic"
)

// ButtonMachine debounces the two buttons, toggles relays in Manual mode and
// flips the mode on a two-button long press. SW3 drives the fan and SW4 the
// light.
//
// Poll must be called from a single goroutine at a fixed short period
// (20ms or less) for the debounce window to hold.
type ButtonMachine struct {
	state   *State
	relays  ActuatorSink
	display DisplaySink
	timing  logic.Timing

	sw3 logic.Button
	sw4 logic.Button
	lp  logic.LongPress
}

// NewButtonMachine creates a ButtonMachine with both buttons released.
func NewButtonMachine(state *State, relays ActuatorSink, display DisplaySink, timing logic.Timing) *ButtonMachine {
	return &ButtonMachine{
		state:   state,
		relays:  relays,
		display: display,
		timing:  timing,
		sw3:     logic.NewButton(),
		sw4:     logic.NewButton(),
	}
}

// Poll feeds one sample of the raw, active-low levels (pressed = false).
// It reports whether the mode flipped on this tick.
func (m *ButtonMachine) Poll(now time.Time, sw3Raw, sw4Raw bool) bool {
	both := !sw3Raw && !sw4Raw

	if m.lp.Update(now, both, m.timing.LongPress) {
		m.sw3.Absorb(now, sw3Raw)
		m.sw4.Absorb(now, sw4Raw)
		snap := m.state.FlipMode()
		m.display.Render(snap)
		return true
	}

	// A two-button hold owns the inputs: no single-button toggles.
	if both {
		m.sw3.Absorb(now, sw3Raw)
		m.sw4.Absorb(now, sw4Raw)
		return false
	}

	m.handle(now, &m.sw3, sw3Raw, logic.RelayFan)
	m.handle(now, &m.sw4, sw4Raw, logic.RelayLight)
	return false
}

func (m *ButtonMachine) handle(now time.Time, b *logic.Button, raw bool, id logic.RelayID) {
	if b.Update(now, raw, m.timing.Debounce) != logic.EdgePress {
		return
	}
	m.state.ToggleRelay(id, m.relays)
}

// Holding reports whether a two-button hold is being timed.
func (m *ButtonMachine) Holding() bool {
	return m.lp.Holding()
}
