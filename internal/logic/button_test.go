package logic

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

const debounce = 100 * time.Millisecond

func TestNewButtonReleased(t *testing.T) {
	b := NewButton()
	if !b.Raw || !b.Level {
		t.Errorf("expected released levels, got raw=%v level=%v", b.Raw, b.Level)
	}
	if b.Pressed() {
		t.Error("new button should not be pressed")
	}
	if !b.AcceptedAt.IsZero() {
		t.Error("new button should have no accepted edge")
	}
}

func TestButtonFirstPressAccepted(t *testing.T) {
	b := NewButton()

	if e := b.Update(at(0), false, debounce); e != EdgePress {
		t.Fatalf("expected EdgePress, got %v", e)
	}
	if !b.Pressed() {
		t.Error("expected pressed after accepted edge")
	}
	if !b.AcceptedAt.Equal(at(0)) {
		t.Errorf("AcceptedAt: got %v, want %v", b.AcceptedAt, at(0))
	}
}

func TestButtonStableLevelNoEdges(t *testing.T) {
	b := NewButton()
	for i := 0; i < 20; i++ {
		if e := b.Update(at(i*10), true, debounce); e != EdgeNone {
			t.Fatalf("tick %d: expected no edge for stable level, got %v", i, e)
		}
	}
}

func TestButtonBounceRejected(t *testing.T) {
	b := NewButton()
	b.Update(at(0), false, debounce) // press accepted

	// Contact bounce: high/low glitches inside the window
	if e := b.Update(at(10), true, debounce); e != EdgeNone {
		t.Errorf("bounce at 10ms: expected no edge, got %v", e)
	}
	if e := b.Update(at(20), false, debounce); e != EdgeNone {
		t.Errorf("bounce at 20ms: expected no edge, got %v", e)
	}
	if e := b.Update(at(30), true, debounce); e != EdgeNone {
		t.Errorf("bounce at 30ms: expected no edge, got %v", e)
	}
	if e := b.Update(at(40), false, debounce); e != EdgeNone {
		t.Errorf("bounce at 40ms: expected no edge, got %v", e)
	}

	// Settled low: nothing to accept
	if e := b.Update(at(150), false, debounce); e != EdgeNone {
		t.Errorf("settled: expected no edge, got %v", e)
	}
	if !b.Pressed() {
		t.Error("expected button still pressed")
	}
}

func TestButtonPendingChangeAcceptedAfterWindow(t *testing.T) {
	b := NewButton()
	b.Update(at(0), false, debounce)

	// Released at 50ms, inside the window
	if e := b.Update(at(50), true, debounce); e != EdgeNone {
		t.Fatalf("expected release to wait for window, got %v", e)
	}
	if !b.ChangedAt.Equal(at(50)) {
		t.Errorf("ChangedAt: got %v, want %v", b.ChangedAt, at(50))
	}
	if e := b.Update(at(90), true, debounce); e != EdgeNone {
		t.Fatalf("expected no edge at 90ms, got %v", e)
	}

	// Exactly at the window boundary the release is accepted
	if e := b.Update(at(100), true, debounce); e != EdgeRelease {
		t.Fatalf("expected EdgeRelease at 100ms, got %v", e)
	}
}

func TestButtonEdgesRespectWindow(t *testing.T) {
	// Property: consecutive accepted edges are at least debounce apart.
	b := NewButton()
	levels := []bool{false, true, false, false, true, true, false, true, false, true, true, false}
	var last time.Time
	for i, lvl := range levels {
		now := at(i * 30)
		if e := b.Update(now, lvl, debounce); e != EdgeNone {
			if !last.IsZero() && now.Sub(last) < debounce {
				t.Fatalf("tick %d: edge %v only %v after previous", i, e, now.Sub(last))
			}
			last = now
		}
	}
}

func TestButtonAbsorb(t *testing.T) {
	b := NewButton()
	b.Absorb(at(0), false)

	if !b.Pressed() {
		t.Error("absorb should follow the raw level")
	}
	if !b.AcceptedAt.Equal(at(0)) {
		t.Errorf("AcceptedAt: got %v, want %v", b.AcceptedAt, at(0))
	}

	// The release right after is still debounced
	if e := b.Update(at(20), true, debounce); e != EdgeNone {
		t.Errorf("expected release inside window to wait, got %v", e)
	}
	if e := b.Update(at(120), true, debounce); e != EdgeRelease {
		t.Errorf("expected EdgeRelease after window, got %v", e)
	}
}

func TestLongPressFiresOnceAtThreshold(t *testing.T) {
	var lp LongPress
	hold := 3000 * time.Millisecond

	if lp.Update(at(0), true, hold) {
		t.Fatal("should not fire on first detection")
	}
	if !lp.Holding() {
		t.Fatal("expected hold to be timed")
	}
	if lp.Update(at(2990), true, hold) {
		t.Fatal("should not fire before threshold")
	}
	if !lp.Update(at(3000), true, hold) {
		t.Fatal("expected fire at threshold")
	}

	// Still held: no re-fire, however long
	for ms := 3010; ms <= 12000; ms += 10 {
		if lp.Update(at(ms), true, hold) {
			t.Fatalf("re-fired at %dms during the same hold", ms)
		}
	}
}

func TestLongPressReleaseResetsTimer(t *testing.T) {
	var lp LongPress
	hold := 3000 * time.Millisecond

	lp.Update(at(0), true, hold)
	lp.Update(at(2500), true, hold)
	lp.Update(at(2510), false, hold) // early release

	if lp.Holding() {
		t.Fatal("release should reset the tracker")
	}

	// Re-press: timer starts over
	lp.Update(at(2600), true, hold)
	if lp.Update(at(5000), true, hold) {
		t.Fatal("should not fire 2400ms into the new hold")
	}
	if !lp.Update(at(5600), true, hold) {
		t.Fatal("expected fire 3000ms into the new hold")
	}
}

func TestLongPressRearmsAfterRelease(t *testing.T) {
	var lp LongPress
	hold := 3000 * time.Millisecond

	lp.Update(at(0), true, hold)
	if !lp.Update(at(3000), true, hold) {
		t.Fatal("expected first fire")
	}
	lp.Update(at(3100), false, hold)

	lp.Update(at(4000), true, hold)
	if !lp.Update(at(7000), true, hold) {
		t.Fatal("expected second fire after release and re-hold")
	}
}

func TestModeToggle(t *testing.T) {
	if ModeManual.Toggle() != ModeAutomatic {
		t.Error("Manual.Toggle() should be Automatic")
	}
	if ModeAutomatic.Toggle() != ModeManual {
		t.Error("Automatic.Toggle() should be Manual")
	}
	if ModeManual.String() != "MANUAL" || ModeAutomatic.String() != "AUTO" {
		t.Errorf("unexpected labels %q %q", ModeManual, ModeAutomatic)
	}
	var zero Mode
	if zero != ModeManual {
		t.Error("zero Mode should be Manual")
	}
}
