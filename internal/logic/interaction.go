package logic

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Debouncer filters raw edge events. Accepted events for the same button are
// always more than the debounce delay apart.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	last   [numButtons]time.Duration
	seen   [numButtons]bool
	counts EdgeCounts
}

// NewDebouncer creates a Debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Accept reports whether an edge on b at now passes the debounce window, and
// records it if so. The first edge of each button is always accepted.
// Panics if b is not a known button.
func (d *Debouncer) Accept(b Button, now time.Duration) bool {
	if b < 0 || b >= numButtons {
		panic(fmt.Sprintf("logic: unknown button %d", int(b)))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen[b] && now-d.last[b] <= d.delay {
		d.counts.Discarded++
		return false
	}

	d.seen[b] = true
	d.last[b] = now
	switch b {
	case ButtonMode:
		d.counts.Mode++
	case ButtonLEDs:
		d.counts.LEDs++
	}
	return true
}

// Counts returns a copy of the edge counters.
func (d *Debouncer) Counts() EdgeCounts {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts
}

// State is a point-in-time copy of the interaction flags.
type State struct {
	GreenLEDOn      bool
	JoystickLEDs    bool
	BorderThickness int
	BorderDirty     bool
}

// Interaction holds the mode flags toggled by the buttons. It is written from
// the edge event goroutine and read by the main loop; every field is an
// independent atomic so no lock is needed.
type Interaction struct {
	debouncer *Debouncer

	greenLED     atomic.Bool
	joystickLEDs atomic.Bool
	thickness    atomic.Int32
	borderDirty  atomic.Bool
}

// NewInteraction creates the initial state: green LED off, joystick LEDs
// enabled, border thickness 1.
func NewInteraction(debounce time.Duration) *Interaction {
	s := &Interaction{debouncer: NewDebouncer(debounce)}
	s.joystickLEDs.Store(true)
	s.thickness.Store(InitialBorder)
	return s
}

// Edge is the outcome of a handled edge event.
type Edge struct {
	Button   Button
	Accepted bool
	// GreenLED is the new green LED value. Only meaningful when a ButtonMode
	// edge was accepted; the caller drives the LED output to this value.
	GreenLED bool
}

// HandleEdge applies a falling edge on b at now. Edges inside the debounce
// window are discarded without side effects.
func (s *Interaction) HandleEdge(b Button, now time.Duration) Edge {
	if !s.debouncer.Accept(b, now) {
		return Edge{Button: b}
	}

	e := Edge{Button: b, Accepted: true}
	switch b {
	case ButtonMode:
		e.GreenLED = !s.greenLED.Load()
		s.greenLED.Store(e.GreenLED)
		s.borderDirty.Store(true)
	case ButtonLEDs:
		s.joystickLEDs.Store(!s.joystickLEDs.Load())
	}
	return e
}

// GreenLED reports whether the green LED should be lit.
func (s *Interaction) GreenLED() bool {
	return s.greenLED.Load()
}

// JoystickLEDs reports whether the red and blue LEDs follow the stick.
func (s *Interaction) JoystickLEDs() bool {
	return s.joystickLEDs.Load()
}

// BorderThickness returns the current border thickness in pixels.
func (s *Interaction) BorderThickness() int {
	return int(s.thickness.Load())
}

// takeBorderDirty clears the redraw flag and reports whether it was set.
func (s *Interaction) takeBorderDirty() bool {
	return s.borderDirty.Swap(false)
}

// cycleBorder advances the thickness (t+2) mod 4 and returns the old and
// new values. Starting from 1 this only ever visits 1 and 3.
func (s *Interaction) cycleBorder() (old, next int) {
	old = s.BorderThickness()
	next = (old + 2) % 4
	s.thickness.Store(int32(next))
	return old, next
}

// Snapshot returns a copy of all flags.
func (s *Interaction) Snapshot() State {
	return State{
		GreenLEDOn:      s.greenLED.Load(),
		JoystickLEDs:    s.joystickLEDs.Load(),
		BorderThickness: s.BorderThickness(),
		BorderDirty:     s.borderDirty.Load(),
	}
}

// Counts returns the edge counters.
func (s *Interaction) Counts() EdgeCounts {
	return s.debouncer.Counts()
}
