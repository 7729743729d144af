// Package display renders the control state as status text.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sweeney/envmon/internal/control"
)

// Lines returns the status display lines for snap. Floats are shown with one
// decimal place using fmt's %.1f rounding of the float64 value.
func Lines(snap control.Snapshot) []string {
	r := snap.Reading
	return []string{
		"Mode: " + snap.Mode.String(),
		fmt.Sprintf("Temp: %.1f C", r.Temperature),
		fmt.Sprintf("Humidity: %.1f %%", r.Humidity),
		fmt.Sprintf("Pressure: %.1f hPa", r.Pressure),
		fmt.Sprintf("Light: %d lux", r.Light),
		"Fan: " + onOff(snap.FanOn),
		"Light: " + onOff(snap.LightOn),
	}
}

// Format joins Lines with newlines.
func Format(snap control.Snapshot) string {
	return strings.Join(Lines(snap), "\n")
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// Console writes each frame to w, skipping frames identical to the previous one.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render implements control.DisplaySink.
func (c *Console) Render(snap control.Snapshot) {
	frame := Format(snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	if frame == c.last {
		return
	}
	c.last = frame
	fmt.Fprintf(c.w, "%s\n\n", frame)
}

type multi []control.DisplaySink

// Multi fans a render out to every sink in order.
func Multi(sinks ...control.DisplaySink) control.DisplaySink {
	return multi(sinks)
}

func (m multi) Render(snap control.Snapshot) {
	for _, s := range m {
		s.Render(snap)
	}
}
