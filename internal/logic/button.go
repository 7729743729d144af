package logic

import "time"

// Edge is an accepted, debounced transition of a button.
type Edge int

const (
	EdgeNone Edge = iota
	// EdgePress is a falling edge (inputs are active-low).
	EdgePress
	// EdgeRelease is a rising edge.
	EdgeRelease
)

// Button tracks debounce state for one active-low push button.
// The zero value is not ready for use; see NewButton.
type Button struct {
	// Raw is the last observed level (true = high = released).
	Raw bool
	// Level is the debounced level.
	Level bool
	// ChangedAt is when Raw last changed.
	ChangedAt time.Time
	// AcceptedAt is when Level last changed. Zero until the first accepted edge.
	AcceptedAt time.Time
}

// NewButton returns a released button.
func NewButton() Button {
	return Button{Raw: true, Level: true}
}

// Pressed reports whether the debounced level is pressed.
func (b *Button) Pressed() bool {
	return !b.Level
}

// Update feeds one raw sample. A level change is accepted only if at least
// debounce has elapsed since the last accepted change for this button.
// A change seen inside the window stays pending and is accepted on a later
// sample if the raw level still differs.
func (b *Button) Update(now time.Time, raw bool, debounce time.Duration) Edge {
	if raw != b.Raw {
		b.Raw = raw
		b.ChangedAt = now
	}

	if raw == b.Level {
		return EdgeNone
	}
	if !b.AcceptedAt.IsZero() && now.Sub(b.AcceptedAt) < debounce {
		return EdgeNone
	}

	b.Level = raw
	b.AcceptedAt = now
	if raw {
		return EdgeRelease
	}
	return EdgePress
}

// Absorb follows the raw level without emitting an edge. Used while a
// two-button gesture owns the inputs.
func (b *Button) Absorb(now time.Time, raw bool) {
	if raw != b.Raw {
		b.Raw = raw
		b.ChangedAt = now
	}
	if raw != b.Level {
		b.Level = raw
		b.AcceptedAt = now
	}
}

// LongPress detects both buttons held together for a minimum duration.
type LongPress struct {
	// Start is when the current simultaneous hold began. Zero when not held.
	Start time.Time
	// Fired latches after the gesture fires until the hold ends.
	Fired bool
}

// Update feeds whether both buttons are pressed right now. It returns true
// exactly once per continuous hold, when the hold reaches hold.
func (l *LongPress) Update(now time.Time, bothPressed bool, hold time.Duration) bool {
	if !bothPressed {
		l.Reset()
		return false
	}
	if l.Fired {
		return false
	}
	if l.Start.IsZero() {
		l.Start = now
	}
	if now.Sub(l.Start) >= hold {
		l.Start = time.Time{}
		l.Fired = true
		return true
	}
	return false
}

// Reset clears the tracker.
func (l *LongPress) Reset() {
	l.Start = time.Time{}
	l.Fired = false
}

// Holding reports whether a hold is being timed.
func (l *LongPress) Holding() bool {
	return !l.Start.IsZero()
}
