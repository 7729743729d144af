//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"

	"github.com/sweeney/envmon/internal/logic"
)

// RealReader reads the buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	sw3Pin *gpiocdev.Line
	sw4Pin *gpiocdev.Line
}

// NewRealReader requests the two button lines as inputs with pull-up bias,
// so an open button reads high.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	sw3, err := chip.RequestLine(pins.SW3, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request SW3 pin %d: %w", pins.SW3, err)
	}

	sw4, err := chip.RequestLine(pins.SW4, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		sw3.Close()
		chip.Close()
		return nil, fmt.Errorf("request SW4 pin %d: %w", pins.SW4, err)
	}

	return &RealReader{
		chip:   chip,
		sw3Pin: sw3,
		sw4Pin: sw4,
	}, nil
}

// Read returns the raw levels of SW3 and SW4 (true = high = released).
func (r *RealReader) Read() (bool, bool, error) {
	sw3, err := r.sw3Pin.Value()
	if err != nil {
		return true, true, fmt.Errorf("read SW3 pin: %w", err)
	}

	sw4, err := r.sw4Pin.Value()
	if err != nil {
		return true, true, fmt.Errorf("read SW4 pin: %w", err)
	}

	return sw3 == 1, sw4 == 1, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error

	if r.sw3Pin != nil {
		if err := r.sw3Pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close SW3 pin: %w", err))
		}
	}
	if r.sw4Pin != nil {
		if err := r.sw4Pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close SW4 pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// Relays drives the fan and light relays as GPIO outputs.
type Relays struct {
	mu    sync.Mutex
	log   *zap.Logger
	chip  *gpiocdev.Chip
	lines map[logic.RelayID]*gpiocdev.Line
}

// NewRelays requests both relay lines as outputs, initially off.
func NewRelays(pins Pins, log *zap.Logger) (*Relays, error) {
	chip, err := gpiocdev.NewChip(pins.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if pins.RelayActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	fan, err := chip.RequestLine(pins.Fan, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request fan pin %d: %w", pins.Fan, err)
	}

	light, err := chip.RequestLine(pins.Light, opts...)
	if err != nil {
		fan.Close()
		chip.Close()
		return nil, fmt.Errorf("request light pin %d: %w", pins.Light, err)
	}

	return &Relays{
		log:  log,
		chip: chip,
		lines: map[logic.RelayID]*gpiocdev.Line{
			logic.RelayFan:   fan,
			logic.RelayLight: light,
		},
	}, nil
}

// SetRelay implements control.ActuatorSink. Hardware errors are logged.
func (r *Relays) SetRelay(id logic.RelayID, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok {
		r.log.Error("unknown relay", zap.Stringer("relay", id))
		return
	}
	v := 0
	if on {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		r.log.Error("set relay failed", zap.Stringer("relay", id), zap.Bool("on", on), zap.Error(err))
	}
}

// Close switches both relays off and releases the lines.
func (r *Relays) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, line := range r.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch off %s relay: %w", id, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s relay: %w", id, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
