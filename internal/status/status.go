// Package status provides a thread-safe status tracker for the joypanel daemon.
// It is read by the heartbeat, print-state mode and the simulator HUD.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/joypanel/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	ADCMax      int
	DeadZone    int
	Wrap        int
}

// Outputs holds the values last driven to the LEDs.
type Outputs struct {
	RedDuty  int
	BlueDuty int
	Green    bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	SampleX   int
	SampleY   int
	Cursor    logic.Point
	State     logic.State
	Outputs   Outputs
	Counts    logic.EdgeCounts
	Ticks     uint64
	Errors    uint64
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Tick records the result of one loop iteration.
func (t *Tracker) Tick(sx, sy int, cursor logic.Point, st logic.State, out Outputs, counts logic.EdgeCounts) {
	t.mu.Lock()
	t.snap.SampleX = sx
	t.snap.SampleY = sy
	t.snap.Cursor = cursor
	t.snap.State = st
	t.snap.Outputs = out
	t.snap.Counts = counts
	t.snap.Ticks++
	t.mu.Unlock()
}

// SetGreen records the green LED value driven from an edge event.
func (t *Tracker) SetGreen(on bool) {
	t.mu.Lock()
	t.snap.Outputs.Green = on
	t.mu.Unlock()
}

// AddError counts a collaborator error.
func (t *Tracker) AddError() {
	t.mu.Lock()
	t.snap.Errors++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
