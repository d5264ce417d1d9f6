package gpio

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/joypanel/internal/logic"
)

// FakeButtons is a test double that delivers scripted edges.
type FakeButtons struct {
	handler EdgeHandler

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeButtons creates FakeButtons delivering to h.
func NewFakeButtons(h EdgeHandler) *FakeButtons {
	return &FakeButtons{handler: h}
}

// Press delivers one falling edge synchronously.
func (f *FakeButtons) Press(b logic.Button, at time.Duration) {
	if f.Closed {
		return
	}
	f.handler(b, at)
}

// Bounce delivers a press followed by n contact bounces spaced by gap.
func (f *FakeButtons) Bounce(b logic.Button, at time.Duration, n int, gap time.Duration) {
	f.Press(b, at)
	for i := 1; i <= n; i++ {
		f.Press(b, at+time.Duration(i)*gap)
	}
}

// Close stops delivery.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// FakeLED records the values it was driven to.
type FakeLED struct {
	mu     sync.Mutex
	values []bool

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeLED creates a FakeLED.
func NewFakeLED() *FakeLED {
	return &FakeLED{}
}

// Set records the value.
func (f *FakeLED) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.mu.Lock()
	f.values = append(f.values, on)
	f.mu.Unlock()
	return nil
}

// On returns the last value written.
func (f *FakeLED) On() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) == 0 {
		return false, errors.New("LED never set")
	}
	return f.values[len(f.values)-1], nil
}

// Values returns every value written, oldest first.
func (f *FakeLED) Values() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.values...)
}

// Close marks the LED as closed.
func (f *FakeLED) Close() error {
	f.Closed = true
	return nil
}
