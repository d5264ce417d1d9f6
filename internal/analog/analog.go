// Package analog reads the joystick axes with hardware abstraction.
// The real implementation uses an ADS1115 converter on the I2C bus.
package analog

import "github.com/sweeney/joypanel/internal/logic"

// Reader samples one joystick axis.
type Reader interface {
	// Read returns the axis sample scaled to [0, ADCMax].
	Read(axis logic.Axis) (int, error)

	// Close releases ADC resources.
	Close() error
}
