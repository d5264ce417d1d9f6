// Command joypanel maps an analog joystick to two PWM LEDs and a cursor on a
// 128×64 OLED, with two push-buttons toggling the display border and LEDs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/sweeney/joypanel/internal/analog"
	"github.com/sweeney/joypanel/internal/config"
	"github.com/sweeney/joypanel/internal/display"
	"github.com/sweeney/joypanel/internal/gpio"
	"github.com/sweeney/joypanel/internal/logic"
	"github.com/sweeney/joypanel/internal/panel"
	"github.com/sweeney/joypanel/internal/pwm"
	"github.com/sweeney/joypanel/internal/status"
)

// overrides holds command-line values that replace config file fields.
// Only flags present in set are applied.
type overrides struct {
	tick      time.Duration
	debounce  time.Duration
	heartbeat time.Duration
	logLevel  string
	set       map[string]bool
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (empty for built-in defaults)")
	tick := flag.Duration("tick", 100*time.Millisecond, "Main loop interval")
	debounce := flag.Duration("debounce", logic.DefaultDebounceDelay, "Button debounce delay")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	logLevel := flag.String("log-level", "info", "Log level: error, warn, info or debug")
	printState := flag.Bool("print-state", false, "Sample the joystick once, print status JSON and exit")

	flag.Parse()

	o := overrides{
		tick:      *tick,
		debounce:  *debounce,
		heartbeat: *heartbeat,
		logLevel:  *logLevel,
		set:       map[string]bool{},
	}
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *printState, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string, o overrides) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	return applyOverrides(cfg, o)
}

func applyOverrides(cfg config.Config, o overrides) (config.Config, error) {
	if o.set["tick"] {
		cfg.TickMS = int(o.tick / time.Millisecond)
	}
	if o.set["debounce"] {
		cfg.DebounceMS = int(o.debounce / time.Millisecond)
	}
	if o.set["heartbeat"] {
		cfg.HeartbeatMS = int(o.heartbeat / time.Millisecond)
	}
	if o.set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		TickMs:      cfg.Tick().Milliseconds(),
		DebounceMs:  cfg.Debounce().Milliseconds(),
		HeartbeatMs: cfg.Heartbeat().Milliseconds(),
		ADCMax:      cfg.Joystick.ADCMax,
		DeadZone:    cfg.Joystick.DeadZone,
		Wrap:        cfg.PWM.Wrap,
	}
}

func run(cfg config.Config, printState bool, logger *slog.Logger) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2C.Bus)
	if err != nil {
		return fmt.Errorf("open i2c bus %q: %w", cfg.I2C.Bus, err)
	}
	defer bus.Close()

	adcOpts := analog.DefaultOpts()
	adcOpts.Address = cfg.ADC.Address
	adcOpts.ChannelX = cfg.ADC.ChannelX
	adcOpts.ChannelY = cfg.ADC.ChannelY
	adcOpts.Reference = physic.ElectricPotential(cfg.ADC.ReferenceMV) * physic.MilliVolt
	adcOpts.ADCMax = cfg.Joystick.ADCMax
	adc, err := analog.NewRealReader(bus, adcOpts)
	if err != nil {
		return fmt.Errorf("init joystick: %w", err)
	}
	defer adc.Close()

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	// Print state mode
	if printState {
		if err := probe(adc, cfg.Mapper(), tracker); err != nil {
			return err
		}
		fmt.Println(string(status.FormatJSON(tracker.Snapshot())))
		return nil
	}

	geom := cfg.Geometry()
	oled, err := display.NewOLED(bus, geom.Width, geom.Height)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer oled.Halt()

	leds, err := pwm.NewRealDriver(pwm.Opts{
		RedPin:    cfg.PWM.RedPin,
		BluePin:   cfg.PWM.BluePin,
		Frequency: physic.Frequency(cfg.PWM.FrequencyHz) * physic.Hertz,
		Wrap:      cfg.PWM.Wrap,
	})
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer leds.Close()

	green, err := gpio.NewRealLED(cfg.GPIO.Chip, cfg.GPIO.LEDGreen)
	if err != nil {
		return fmt.Errorf("init green LED: %w", err)
	}
	defer green.Close()

	session := panel.New(cfg.Mapper(), cfg.Debounce(), panel.Devices{
		Analog:  adc,
		PWM:     leds,
		Green:   green,
		Display: display.NewFramebuffer(geom.Width, geom.Height, oled),
	}, tracker, logger)

	buttons, err := gpio.NewRealButtons(cfg.GPIO.Chip, gpio.Pins{
		ButtonMode: cfg.GPIO.ButtonMode,
		ButtonLEDs: cfg.GPIO.ButtonLEDs,
		LEDGreen:   cfg.GPIO.LEDGreen,
	}, session.HandleEdge)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	logger.Info("started",
		"tick", cfg.Tick(),
		"debounce", cfg.Debounce(),
		"heartbeat", cfg.Heartbeat(),
		"dead_zone", cfg.Joystick.DeadZone,
		"wrap", cfg.PWM.Wrap)

	ticker := time.NewTicker(cfg.Tick())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(session, cfg.Heartbeat(), time.Now, ticker.C, sigCh, logger)
}

// probe takes one joystick sample and records what a tick would produce
// without touching any output.
func probe(adc analog.Reader, m logic.Mapper, tracker *status.Tracker) error {
	sx, err := adc.Read(logic.AxisX)
	if err != nil {
		return fmt.Errorf("read joystick: %w", err)
	}
	sy, err := adc.Read(logic.AxisY)
	if err != nil {
		return fmt.Errorf("read joystick: %w", err)
	}

	st := logic.NewInteraction(0).Snapshot()
	cursor := logic.NewRenderer(m).Clamp(logic.Point{
		X: m.Position(sx, logic.AxisX),
		Y: m.Position(sy, logic.AxisY),
	}, st.BorderThickness)
	out := status.Outputs{RedDuty: m.Duty(sx), BlueDuty: m.Duty(sy)}

	tracker.Tick(sx, sy, cursor, st, out, logic.EdgeCounts{})
	return nil
}

func runLoop(session *panel.Session, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, logger *slog.Logger) error {
	if err := session.Start(now()); err != nil {
		logger.Warn("startup screen error", "err", err)
	}

	for {
		select {
		case s := <-sig:
			logger.Info("shutting down", "signal", s)
			if err := session.Stop(); err != nil {
				logger.Warn("shutdown error", "err", err)
			}
			return nil

		case <-tick:
			t := now()
			if err := session.Step(); err != nil {
				// Don't stop on a transient bus error
				logger.Warn("tick error", "err", err)
			}

			if hb := session.CheckHeartbeat(t, heartbeat); hb != nil {
				logger.Info("heartbeat",
					"uptime", hb.Uptime().Truncate(time.Second),
					"ticks", hb.Ticks,
					"errors", hb.Errors,
					"mode_edges", hb.Counts.Mode,
					"leds_edges", hb.Counts.LEDs,
					"discarded", hb.Counts.Discarded)
			}
		}
	}
}
