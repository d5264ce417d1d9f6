package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/joypanel/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{TickMs: 100, DebounceMs: 200, ADCMax: 4095, DeadZone: 300, Wrap: 4096}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config != cfg {
		t.Errorf("Config: got %+v, want %+v", snap.Config, cfg)
	}
	if snap.Ticks != 0 {
		t.Errorf("Ticks: got %d, want 0", snap.Ticks)
	}
}

func TestTick(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	st := logic.State{JoystickLEDs: true, BorderThickness: 3}

	tr.Tick(4095, 0, logic.Point{X: 119, Y: 55}, st, Outputs{RedDuty: 3496, BlueDuty: 4095}, logic.EdgeCounts{Mode: 1})
	tr.Tick(4095, 0, logic.Point{X: 119, Y: 55}, st, Outputs{RedDuty: 3496, BlueDuty: 4095}, logic.EdgeCounts{Mode: 1})

	snap := tr.Snapshot()
	if snap.Ticks != 2 {
		t.Errorf("Ticks: got %d, want 2", snap.Ticks)
	}
	if snap.Cursor != (logic.Point{X: 119, Y: 55}) {
		t.Errorf("Cursor: got %+v", snap.Cursor)
	}
	if snap.Outputs.RedDuty != 3496 || snap.Outputs.BlueDuty != 4095 {
		t.Errorf("Outputs: got %+v", snap.Outputs)
	}
	if snap.State.BorderThickness != 3 {
		t.Errorf("BorderThickness: got %d, want 3", snap.State.BorderThickness)
	}
}

func TestSetGreenAndErrors(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetGreen(true)
	tr.AddError()
	tr.AddError()

	snap := tr.Snapshot()
	if !snap.Outputs.Green {
		t.Error("expected green on")
	}
	if snap.Errors != 2 {
		t.Errorf("Errors: got %d, want 2", snap.Errors)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Tick(1, 2, logic.Point{X: 3, Y: 4}, logic.State{}, Outputs{}, logic.EdgeCounts{})

	snap1 := tr.Snapshot()
	tr.Tick(5, 6, logic.Point{X: 7, Y: 8}, logic.State{}, Outputs{}, logic.EdgeCounts{})

	if snap1.SampleX != 1 || snap1.Cursor.X != 3 {
		t.Error("snapshot should be a copy; it was modified")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Tick(j, j, logic.Point{}, logic.State{}, Outputs{}, logic.EdgeCounts{})
				tr.SetGreen(j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot().Ticks; got != 400 {
		t.Errorf("Ticks: got %d, want 400", got)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		SampleX:   4095,
		SampleY:   2047,
		Cursor:    logic.Point{X: 119, Y: 28},
		State:     logic.State{JoystickLEDs: true, BorderThickness: 1},
		Outputs:   Outputs{RedDuty: 3496, Green: true},
		Counts:    logic.EdgeCounts{Mode: 3, LEDs: 2, Discarded: 7},
		Ticks:     42,
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
		Config:    Config{TickMs: 100, DebounceMs: 200, HeartbeatMs: 60000, ADCMax: 4095, DeadZone: 300, Wrap: 4096},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Joystick.X != 4095 || s.Joystick.Y != 2047 {
		t.Errorf("Joystick: got %+v", s.Joystick)
	}
	if s.Cursor.X != 119 || s.Cursor.Y != 28 {
		t.Errorf("Cursor: got %+v", s.Cursor)
	}
	if s.Border != 1 {
		t.Errorf("Border: got %d, want 1", s.Border)
	}
	if !s.GreenLED || !s.JoystickLEDs {
		t.Errorf("flags: green=%v joystick=%v", s.GreenLED, s.JoystickLEDs)
	}
	if s.RedDuty != 3496 || s.BlueDuty != 0 {
		t.Errorf("duties: red=%d blue=%d", s.RedDuty, s.BlueDuty)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if s.Counts.Mode != 3 || s.Counts.LEDs != 2 || s.Counts.Discarded != 7 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.DeadZone != 300 || s.Config.Wrap != 4096 {
		t.Errorf("Config: got %+v", s.Config)
	}
}
