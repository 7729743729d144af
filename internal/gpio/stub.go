//go:build !linux

package gpio

import (
	"errors"

	"go.uber.org/zap"

	"github.com/sweeney/envmon/internal/logic"
)

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(pins Pins) (*RealReader, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (bool, bool, error) {
	return true, true, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// Relays is not available on non-Linux platforms.
type Relays struct{}

// NewRelays returns an error on non-Linux platforms.
func NewRelays(pins Pins, log *zap.Logger) (*Relays, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetRelay is a no-op on non-Linux platforms.
func (r *Relays) SetRelay(id logic.RelayID, on bool) {}

// Close is not implemented on non-Linux platforms.
func (r *Relays) Close() error {
	return nil
}
