// Package gpio provides button input and relay output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the two push buttons.
type Reader interface {
	// Read returns the raw levels of SW3 and SW4.
	// The buttons are active-low: pressed = false.
	Read() (sw3, sw4 bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinSW3   = 5  // fan button
	DefaultPinSW4   = 6  // light button
	DefaultPinFan   = 23 // fan relay
	DefaultPinLight = 24 // light relay
)

// Pins selects the lines used on the GPIO chip.
type Pins struct {
	Chip  string
	SW3   int
	SW4   int
	Fan   int
	Light int
	// RelayActiveLow inverts the relay outputs for boards that switch on low.
	RelayActiveLow bool
}

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		Chip:  "gpiochip0",
		SW3:   DefaultPinSW3,
		SW4:   DefaultPinSW4,
		Fan:   DefaultPinFan,
		Light: DefaultPinLight,
	}
}
