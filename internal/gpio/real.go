//go:build linux

package gpio

import (
	"fmt"

	"github.com/sweeney/joypanel/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// RealButtons watches the button lines for falling edges using the Linux GPIO
// character device.
type RealButtons struct {
	lines   *gpiocdev.Lines
	offsets [2]int
}

// NewRealButtons requests both button lines as pulled-up inputs and delivers
// falling edges to h. The buttons pull the line low when pressed.
func NewRealButtons(chip string, pins Pins, h EdgeHandler) (*RealButtons, error) {
	b := &RealButtons{offsets: [2]int{pins.ButtonMode, pins.ButtonLEDs}}

	lines, err := gpiocdev.RequestLines(chip, b.offsets[:],
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithConsumer("joypanel"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			btn, ok := b.button(evt.Offset)
			if !ok {
				return
			}
			h(btn, evt.Timestamp)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("request button pins %v: %w", b.offsets, err)
	}
	b.lines = lines
	return b, nil
}

func (b *RealButtons) button(offset int) (logic.Button, bool) {
	switch offset {
	case b.offsets[0]:
		return logic.ButtonMode, true
	case b.offsets[1]:
		return logic.ButtonLEDs, true
	}
	return 0, false
}

// Close releases the button lines.
// Reconfigures them to plain inputs before closing so no edge watcher is left
// running on the chip.
func (b *RealButtons) Close() error {
	if b.lines == nil {
		return nil
	}
	var errs []error
	if err := b.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithoutEdges); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
	}
	if err := b.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close button pins: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLED drives an output line.
type RealLED struct {
	line *gpiocdev.Line
}

// NewRealLED requests pin as an output, initially low.
func NewRealLED(chip string, pin int) (*RealLED, error) {
	line, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("joypanel"))
	if err != nil {
		return nil, fmt.Errorf("request LED pin %d: %w", pin, err)
	}
	return &RealLED{line: line}, nil
}

// Set drives the LED.
func (l *RealLED) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED pin: %w", err)
	}
	return nil
}

// Close turns the LED off and returns the line to an input.
func (l *RealLED) Close() error {
	var errs []error
	if err := l.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("clear LED pin: %w", err))
	}
	if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure LED pin: %w", err))
	}
	if err := l.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close LED pin: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
