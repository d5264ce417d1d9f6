// Package pwm drives the joystick-controlled LEDs with hardware abstraction.
// The real implementation uses periph.io hardware PWM pins.
package pwm

import "fmt"

// Channel identifies a PWM output.
type Channel int

const (
	// Red follows the X axis.
	Red Channel = iota
	// Blue follows the Y axis.
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Driver sets PWM duty cycles.
type Driver interface {
	// Set drives ch with duty in [0, wrap).
	Set(ch Channel, duty int) error

	// Close turns the outputs off and releases them.
	Close() error
}
