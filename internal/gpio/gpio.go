// Package gpio provides push-button edge events and the green LED output with
// hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/joypanel/internal/logic"
)

// EdgeHandler receives falling edges. at is a monotonic timestamp since boot.
// It is called from the event source's own goroutine.
type EdgeHandler func(b logic.Button, at time.Duration)

// Buttons delivers falling edges from the two push-buttons to the handler
// given at construction.
type Buttons interface {
	// Close stops event delivery and releases GPIO resources.
	Close() error
}

// LED drives a plain on/off output.
type LED interface {
	Set(on bool) error
	Close() error
}

// Pins holds BCM line offsets.
type Pins struct {
	ButtonMode int
	ButtonLEDs int
	LEDGreen   int
}

// Default pin definitions (BCM numbering).
const (
	DefaultPinButtonMode = 22
	DefaultPinButtonLEDs = 5
	DefaultPinLEDGreen   = 17
)

// DefaultPins returns the default wiring.
func DefaultPins() Pins {
	return Pins{
		ButtonMode: DefaultPinButtonMode,
		ButtonLEDs: DefaultPinButtonLEDs,
		LEDGreen:   DefaultPinLEDGreen,
	}
}
