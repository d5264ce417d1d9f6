//go:build !tinygo

// Command joypanel-sim runs the panel in a desktop window. Arrow keys deflect
// the stick, J is the joystick push-button and A is the LEDs button.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sweeney/joypanel/internal/analog"
	"github.com/sweeney/joypanel/internal/config"
	"github.com/sweeney/joypanel/internal/display"
	"github.com/sweeney/joypanel/internal/gpio"
	"github.com/sweeney/joypanel/internal/logic"
	"github.com/sweeney/joypanel/internal/panel"
	"github.com/sweeney/joypanel/internal/pwm"
	"github.com/sweeney/joypanel/internal/status"
)

// bounceGap spaces injected contact bounces.
const bounceGap = 5 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (empty for built-in defaults)")
	bounce := flag.Int("bounce", 0, "Extra contact bounces injected per key press")
	logLevel := flag.String("log-level", "", "Log level override: error, warn, info or debug")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger, err := config.NewLogger(os.Stderr, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	sim := newSimulator(cfg, *bounce, time.Now, logger)
	logger.Info("simulator started", "tick", cfg.Tick(), "debounce", cfg.Debounce(), "bounce", *bounce)
	if err := runWindow(sim); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// input is the keyboard state for one tick.
type input struct {
	left, right, up, down bool
	mode, leds            bool // just pressed
}

// simulator wires a panel session to in-memory devices.
type simulator struct {
	cfg     config.Config
	session *panel.Session
	adc     *analog.FakeReader
	leds    *pwm.FakeDriver
	green   *gpio.FakeLED
	fb      *display.Framebuffer
	buttons *gpio.FakeButtons
	tracker *status.Tracker
	log     *slog.Logger

	bounce int
	start  time.Time
	now    func() time.Time
}

func newSimulator(cfg config.Config, bounce int, now func() time.Time, logger *slog.Logger) *simulator {
	geom := cfg.Geometry()
	center := cfg.Joystick.ADCMax / 2
	s := &simulator{
		cfg:    cfg,
		adc:    analog.NewFakeReader([]analog.Sample{{X: center, Y: center}}),
		leds:   pwm.NewFakeDriver(),
		green:  gpio.NewFakeLED(),
		fb:     display.NewFramebuffer(geom.Width, geom.Height, nil),
		log:    logger,
		bounce: bounce,
		start:  now(),
		now:    now,
	}
	s.tracker = status.NewTracker(s.start, status.Config{
		TickMs:      cfg.Tick().Milliseconds(),
		DebounceMs:  cfg.Debounce().Milliseconds(),
		HeartbeatMs: cfg.Heartbeat().Milliseconds(),
		ADCMax:      cfg.Joystick.ADCMax,
		DeadZone:    cfg.Joystick.DeadZone,
		Wrap:        cfg.PWM.Wrap,
	})
	s.session = panel.New(cfg.Mapper(), cfg.Debounce(), panel.Devices{
		Analog:  s.adc,
		PWM:     s.leds,
		Green:   s.green,
		Display: s.fb,
	}, s.tracker, logger)
	s.buttons = gpio.NewFakeButtons(s.session.HandleEdge)

	if err := s.session.Start(s.start); err != nil {
		logger.Warn("startup screen error", "err", err)
	}
	return s
}

// stickAxis returns the sample for one axis: full deflection while exactly
// one direction is held, centre otherwise.
func stickAxis(neg, pos bool, adcMax int) int {
	switch {
	case neg && !pos:
		return 0
	case pos && !neg:
		return adcMax
	default:
		return adcMax / 2
	}
}

// press delivers a button press with the configured number of bounces.
func (s *simulator) press(b logic.Button) {
	s.buttons.Bounce(b, s.now().Sub(s.start), s.bounce, bounceGap)
}

// step runs one tick with the given keyboard state.
func (s *simulator) step(in input) {
	adcMax := s.cfg.Joystick.ADCMax
	// Y is inverted: pushing up gives the highest sample.
	s.adc.Set(analog.Sample{
		X: stickAxis(in.left, in.right, adcMax),
		Y: stickAxis(in.down, in.up, adcMax),
	})
	if in.mode {
		s.press(logic.ButtonMode)
	}
	if in.leds {
		s.press(logic.ButtonLEDs)
	}

	if err := s.session.Step(); err != nil {
		s.log.Warn("tick error", "err", err)
	}
	if hb := s.session.CheckHeartbeat(s.now(), s.cfg.Heartbeat()); hb != nil {
		s.log.Info("heartbeat", "uptime", hb.Uptime().Truncate(time.Second), "ticks", hb.Ticks)
	}
}

func (s *simulator) stop() {
	if err := s.session.Stop(); err != nil {
		s.log.Warn("shutdown error", "err", err)
	}
}
