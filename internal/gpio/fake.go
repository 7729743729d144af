package gpio

import (
	"errors"
	"sync"

	"github.com/sweeney/envmon/internal/logic"
)

// FakeReader is a test double that returns scripted button levels.
type FakeReader struct {
	// Samples contains scripted raw levels to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single raw reading of both buttons (true = released).
type Sample struct {
	SW3 bool
	SW4 bool
}

// Released is the idle sample.
var Released = Sample{SW3: true, SW4: true}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return true, true, f.ReadError
	}

	if len(f.Samples) == 0 {
		return true, true, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.SW3, sample.SW4, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeRelays records relay commands. Safe for concurrent use.
type FakeRelays struct {
	mu    sync.Mutex
	state map[logic.RelayID]bool
	count int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeRelays creates FakeRelays with both relays off.
func NewFakeRelays() *FakeRelays {
	return &FakeRelays{state: make(map[logic.RelayID]bool)}
}

// SetRelay implements control.ActuatorSink.
func (f *FakeRelays) SetRelay(id logic.RelayID, on bool) {
	f.mu.Lock()
	f.state[id] = on
	f.count++
	f.mu.Unlock()
}

// On reports the last commanded level of id.
func (f *FakeRelays) On(id logic.RelayID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[id]
}

// Count returns the number of SetRelay calls.
func (f *FakeRelays) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Close marks the relays as closed.
func (f *FakeRelays) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
