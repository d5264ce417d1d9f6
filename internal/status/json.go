package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Joystick      JoystickJSON `json:"joystick"`
	Cursor        CursorJSON   `json:"cursor"`
	Border        int          `json:"border_thickness"`
	GreenLED      bool         `json:"green_led"`
	JoystickLEDs  bool         `json:"joystick_leds"`
	RedDuty       int          `json:"red_duty"`
	BlueDuty      int          `json:"blue_duty"`
	Ticks         uint64       `json:"ticks"`
	Errors        uint64       `json:"errors"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Counts        CountsJSON   `json:"edge_counts"`
	Config        ConfigJSON   `json:"config"`
}

// JoystickJSON holds the raw samples.
type JoystickJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CursorJSON holds the square position.
type CursorJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CountsJSON is the JSON representation of edge counts.
type CountsJSON struct {
	Mode      int `json:"mode"`
	LEDs      int `json:"leds"`
	Discarded int `json:"discarded"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64 `json:"tick_ms"`
	DebounceMs  int64 `json:"debounce_ms"`
	HeartbeatMs int64 `json:"heartbeat_ms"`
	ADCMax      int   `json:"adc_max"`
	DeadZone    int   `json:"dead_zone"`
	Wrap        int   `json:"wrap"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Joystick:      JoystickJSON{X: snap.SampleX, Y: snap.SampleY},
		Cursor:        CursorJSON{X: snap.Cursor.X, Y: snap.Cursor.Y},
		Border:        snap.State.BorderThickness,
		GreenLED:      snap.Outputs.Green,
		JoystickLEDs:  snap.State.JoystickLEDs,
		RedDuty:       snap.Outputs.RedDuty,
		BlueDuty:      snap.Outputs.BlueDuty,
		Ticks:         snap.Ticks,
		Errors:        snap.Errors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Mode:      snap.Counts.Mode,
			LEDs:      snap.Counts.LEDs,
			Discarded: snap.Counts.Discarded,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			ADCMax:      snap.Config.ADCMax,
			DeadZone:    snap.Config.DeadZone,
			Wrap:        snap.Config.Wrap,
		},
	}
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
