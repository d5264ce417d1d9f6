// Package panel runs the joystick panel: it owns the per-process state and
// performs one sample → render → drive pass per tick.
package panel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sweeney/joypanel/internal/analog"
	"github.com/sweeney/joypanel/internal/gpio"
	"github.com/sweeney/joypanel/internal/logic"
	"github.com/sweeney/joypanel/internal/pwm"
	"github.com/sweeney/joypanel/internal/status"
)

// Devices are the hardware collaborators driven by a Session.
type Devices struct {
	Analog  analog.Reader
	PWM     pwm.Driver
	Green   gpio.LED
	Display logic.Display
}

// Session holds all state of one running panel.
type Session struct {
	dev      Devices
	mapper   logic.Mapper
	state    *logic.Interaction
	renderer *logic.Renderer
	tracker  *status.Tracker
	log      *slog.Logger

	lastHeartbeat time.Time
}

// New creates a Session. log may be nil.
func New(m logic.Mapper, debounce time.Duration, dev Devices, tracker *status.Tracker, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		dev:      dev,
		mapper:   m,
		state:    logic.NewInteraction(debounce),
		renderer: logic.NewRenderer(m),
		tracker:  tracker,
		log:      log,
	}
}

// State returns the interaction flags.
func (s *Session) State() *logic.Interaction {
	return s.state
}

// Start draws the startup screen and turns the green LED off.
func (s *Session) Start(now time.Time) error {
	s.lastHeartbeat = now
	var errs []error
	if err := s.dev.Green.Set(s.state.GreenLED()); err != nil {
		errs = append(errs, fmt.Errorf("set green LED: %w", err))
	}
	if err := logic.Render(s.dev.Display, s.renderer.Initial(s.state)); err != nil {
		errs = append(errs, fmt.Errorf("draw startup screen: %w", err))
	}
	return errors.Join(errs...)
}

// HandleEdge applies a falling edge. It is safe to call from the edge event
// goroutine while Step runs.
func (s *Session) HandleEdge(b logic.Button, at time.Duration) {
	e := s.state.HandleEdge(b, at)
	if !e.Accepted {
		s.log.Debug("edge discarded", "button", b, "at", at)
		return
	}

	switch b {
	case logic.ButtonMode:
		s.log.Info("edge", "button", b, "green", e.GreenLED)
		if err := s.dev.Green.Set(e.GreenLED); err != nil {
			s.log.Warn("green LED error", "err", err)
			s.tracker.AddError()
		}
		s.tracker.SetGreen(e.GreenLED)
	case logic.ButtonLEDs:
		s.log.Info("edge", "button", b, "joystick_leds", s.state.JoystickLEDs())
	}
}

// Step runs one tick: sample both axes, render the cursor and border, then
// drive the PWM LEDs. A failed sample skips the tick.
func (s *Session) Step() error {
	sx, err := s.dev.Analog.Read(logic.AxisX)
	if err != nil {
		s.tracker.AddError()
		return fmt.Errorf("read joystick: %w", err)
	}
	sy, err := s.dev.Analog.Read(logic.AxisY)
	if err != nil {
		s.tracker.AddError()
		return fmt.Errorf("read joystick: %w", err)
	}

	var errs []error

	frame := s.renderer.Advance(sx, sy, s.state)
	if frame.BorderChanged {
		s.log.Debug("border redrawn", "thickness", s.state.BorderThickness())
	}
	if err := logic.Render(s.dev.Display, frame); err != nil {
		errs = append(errs, fmt.Errorf("flush display: %w", err))
	}

	out := status.Outputs{Green: s.state.GreenLED()}
	if s.state.JoystickLEDs() {
		out.RedDuty = s.mapper.Duty(sx)
		out.BlueDuty = s.mapper.Duty(sy)
	}
	if err := s.dev.PWM.Set(pwm.Red, out.RedDuty); err != nil {
		errs = append(errs, err)
	}
	if err := s.dev.PWM.Set(pwm.Blue, out.BlueDuty); err != nil {
		errs = append(errs, err)
	}

	for range errs {
		s.tracker.AddError()
	}
	s.tracker.Tick(sx, sy, frame.Cursor, s.state.Snapshot(), out, s.state.Counts())
	return errors.Join(errs...)
}

// CheckHeartbeat returns a status snapshot if the interval has elapsed since
// the last heartbeat (or Start). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (s *Session) CheckHeartbeat(now time.Time, interval time.Duration) *status.Snapshot {
	if interval <= 0 {
		return nil
	}
	if now.Sub(s.lastHeartbeat) < interval {
		return nil
	}
	s.lastHeartbeat = now
	snap := s.tracker.Snapshot()
	snap.Now = now
	return &snap
}

// Stop turns every output off and blanks the screen.
func (s *Session) Stop() error {
	var errs []error
	if err := s.dev.PWM.Set(pwm.Red, 0); err != nil {
		errs = append(errs, err)
	}
	if err := s.dev.PWM.Set(pwm.Blue, 0); err != nil {
		errs = append(errs, err)
	}
	if err := s.dev.Green.Set(false); err != nil {
		errs = append(errs, fmt.Errorf("set green LED: %w", err))
	}
	g := s.mapper.Geometry
	s.dev.Display.EraseRect(0, 0, g.Width, g.Height)
	if err := s.dev.Display.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush display: %w", err))
	}
	return errors.Join(errs...)
}
