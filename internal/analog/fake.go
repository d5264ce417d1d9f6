package analog

import (
	"errors"
	"sync"

	"github.com/sweeney/joypanel/internal/logic"
)

// FakeReader is a test double that returns scripted samples.
type FakeReader struct {
	mu sync.Mutex

	// Samples contains scripted (x, y) pairs. Each ReadPair consumes the
	// next one; X and Y reads of the same tick share a pair.
	Samples []Sample

	index int
	reads int

	// ReadError, if set, will be returned by Read()
	ReadError error

	// Closed tracks if Close was called
	Closed bool
}

// Sample is one (x, y) reading.
type Sample struct {
	X int
	Y int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the scripted value for axis. The sample advances after the
// Y axis is read. If samples are exhausted, the last one repeats.
func (f *FakeReader) Read(axis logic.Axis) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	f.reads++
	if axis == logic.AxisY && f.index < len(f.Samples)-1 {
		f.index++
	}
	if axis == logic.AxisX {
		return s.X, nil
	}
	return s.Y, nil
}

// Set replaces the script with a single repeating sample.
func (f *FakeReader) Set(s Sample) {
	f.mu.Lock()
	f.Samples = []Sample{s}
	f.index = 0
	f.mu.Unlock()
}

// Reads returns how many axis reads were made.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
