package pwm

import "sync"

// FakeDriver records duty cycles for test assertions.
type FakeDriver struct {
	mu sync.Mutex

	// Duty holds the last duty written per channel.
	Duty [2]int

	// Writes counts Set calls.
	Writes int

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDriver creates a FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the duty.
func (f *FakeDriver) Set(ch Channel, duty int) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.mu.Lock()
	f.Duty[ch] = duty
	f.Writes++
	f.mu.Unlock()
	return nil
}

// Get returns the last duty written to ch.
func (f *FakeDriver) Get(ch Channel) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Duty[ch]
}

// Close zeroes both channels and marks the driver closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	f.Duty = [2]int{}
	f.Closed = true
	f.mu.Unlock()
	return nil
}
