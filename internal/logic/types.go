// Package logic contains the pure input-to-output logic of the joystick panel.
// This package has NO hardware dependencies (no GPIO, I2C, PWM, OS, or time.Sleep).
// Time is always injectable as a monotonic time.Duration since boot.
package logic

import (
	"fmt"
	"time"
)

// Defaults matching the reference hardware: 12-bit ADC, 128x64 OLED.
const (
	DefaultADCMax        = 4095
	DefaultDeadZone      = 300
	DefaultWrap          = 4096
	DefaultDebounceDelay = 200 * time.Millisecond
	DefaultScreenWidth   = 128
	DefaultScreenHeight  = 64
	DefaultSquareSize    = 8
	InitialBorder        = 1
)

// Button identifies one of the two logical push-buttons.
type Button int

const (
	// ButtonMode is the joystick push-button. It toggles the green LED and
	// cycles the border thickness.
	ButtonMode Button = iota
	// ButtonLEDs enables or disables the joystick-driven LEDs.
	ButtonLEDs

	numButtons
)

func (b Button) String() string {
	switch b {
	case ButtonMode:
		return "MODE"
	case ButtonLEDs:
		return "LEDS"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// Axis selects one joystick axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "X"
	}
	return "Y"
}

// Point is a cursor position in screen pixels.
type Point struct {
	X, Y int
}

// Geometry describes the display and the cursor square.
type Geometry struct {
	Width      int
	Height     int
	SquareSize int
}

// DefaultGeometry returns the 128x64 panel with an 8 pixel square.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:      DefaultScreenWidth,
		Height:     DefaultScreenHeight,
		SquareSize: DefaultSquareSize,
	}
}

// Rest returns the cursor position used while the stick is centred.
func (g Geometry) Rest() Point {
	return Point{
		X: (g.Width - g.SquareSize) / 2,
		Y: (g.Height - g.SquareSize) / 2,
	}
}

// EdgeCounts tracks edge events since startup.
type EdgeCounts struct {
	Mode      int
	LEDs      int
	Discarded int
}
