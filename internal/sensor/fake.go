package sensor

import (
	"errors"
	"sync"
)

// Sample is one scripted sensor sample. A non-nil error fails that sensor.
type Sample struct {
	Temp, Humidity float64
	TempErr        error
	Pa             float64
	PaErr          error
	Lux            uint32
	LuxErr         error
}

// Fake is a test double that returns scripted sensor samples. Each call to
// ReadLight, the last read of a tick, advances to the next sample; the last
// sample repeats once the script is exhausted.
type Fake struct {
	mu      sync.Mutex
	Samples []Sample
	index   int
	// Reads counts ReadLight calls.
	Reads int
}

// NewFake creates a Fake with the given samples.
func NewFake(samples ...Sample) *Fake {
	return &Fake{Samples: samples}
}

var errNoSamples = errors.New("no samples configured")

func (f *Fake) current() (Sample, error) {
	if len(f.Samples) == 0 {
		return Sample{}, errNoSamples
	}
	return f.Samples[f.index], nil
}

// ReadTempHumidity returns the current sample's temperature and humidity.
func (f *Fake) ReadTempHumidity() (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.current()
	if err != nil {
		return 0, 0, err
	}
	return s.Temp, s.Humidity, s.TempErr
}

// ReadPressure returns the current sample's pressure.
func (f *Fake) ReadPressure() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.current()
	if err != nil {
		return 0, err
	}
	return s.Pa, s.PaErr
}

// ReadLight returns the current sample's light and advances the script.
func (f *Fake) ReadLight() (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.current()
	if err != nil {
		return 0, err
	}
	f.Reads++
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Lux, s.LuxErr
}
