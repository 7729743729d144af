package control

import (
	"sync"

	"github.com/sweeney/envmon/internal/logic"
)

type relayCall struct {
	ID logic.RelayID
	On bool
}

// recordingRelays records SetRelay calls.
type recordingRelays struct {
	mu    sync.Mutex
	calls []relayCall
}

func (r *recordingRelays) SetRelay(id logic.RelayID, on bool) {
	r.mu.Lock()
	r.calls = append(r.calls, relayCall{ID: id, On: on})
	r.mu.Unlock()
}

func (r *recordingRelays) Calls() []relayCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]relayCall(nil), r.calls...)
}

func (r *recordingRelays) count(id logic.RelayID) int {
	n := 0
	for _, c := range r.Calls() {
		if c.ID == id {
			n++
		}
	}
	return n
}

// recordingDisplay records rendered snapshots.
type recordingDisplay struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (d *recordingDisplay) Render(s Snapshot) {
	d.mu.Lock()
	d.snaps = append(d.snaps, s)
	d.mu.Unlock()
}

func (d *recordingDisplay) Snaps() []Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Snapshot(nil), d.snaps...)
}

// step is one scripted sensor sample; a non-nil error fails that sensor.
type step struct {
	Temp, Humidity float64
	TempErr        error
	Pa             float64
	PaErr          error
	Lux            uint32
	LuxErr         error
}

// scriptedSource replays steps, repeating the last one when exhausted.
type scriptedSource struct {
	steps []step
	i     int
}

func (s *scriptedSource) cur() step {
	return s.steps[s.i]
}

func (s *scriptedSource) ReadTempHumidity() (float64, float64, error) {
	st := s.cur()
	return st.Temp, st.Humidity, st.TempErr
}

func (s *scriptedSource) ReadPressure() (float64, error) {
	st := s.cur()
	return st.Pa, st.PaErr
}

// ReadLight is read last in a tick, so it advances the script.
func (s *scriptedSource) ReadLight() (uint32, error) {
	st := s.cur()
	if s.i < len(s.steps)-1 {
		s.i++
	}
	return st.Lux, st.LuxErr
}
