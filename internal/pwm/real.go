package pwm

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// Opts configures the PWM outputs.
type Opts struct {
	RedPin    string
	BluePin   string
	Frequency physic.Frequency
	Wrap      int
}

// DefaultOpts uses the two hardware PWM channels of a Raspberry Pi.
func DefaultOpts() Opts {
	return Opts{
		RedPin:    "GPIO13",
		BluePin:   "GPIO12",
		Frequency: 1 * physic.KiloHertz,
		Wrap:      4096,
	}
}

// RealDriver drives periph.io PWM-capable pins.
type RealDriver struct {
	pins [2]gpio.PinIO
	freq physic.Frequency
	wrap int
}

// NewRealDriver looks up both pins. host.Init must have been called.
func NewRealDriver(opts Opts) (*RealDriver, error) {
	if opts.Wrap <= 0 {
		return nil, fmt.Errorf("invalid PWM wrap %d", opts.Wrap)
	}
	d := &RealDriver{freq: opts.Frequency, wrap: opts.Wrap}
	for i, name := range []string{opts.RedPin, opts.BluePin} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%s PWM pin %s not found", Channel(i), name)
		}
		d.pins[i] = p
	}
	return d, nil
}

// Set drives ch with duty in [0, wrap).
func (d *RealDriver) Set(ch Channel, duty int) error {
	if err := d.pins[ch].PWM(toDuty(duty, d.wrap), d.freq); err != nil {
		return fmt.Errorf("set %s PWM: %w", ch, err)
	}
	return nil
}

// toDuty converts a duty in [0, wrap) to periph's fixed-point duty.
func toDuty(duty, wrap int) gpio.Duty {
	if duty <= 0 {
		return 0
	}
	if duty >= wrap {
		duty = wrap - 1
	}
	return gpio.Duty(int64(duty) * int64(gpio.DutyMax) / int64(wrap))
}

// Close drives both pins low and halts them.
func (d *RealDriver) Close() error {
	var errs []error
	for i, p := range d.pins {
		if p == nil {
			continue
		}
		if err := p.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", Channel(i), err))
		}
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s pin: %w", Channel(i), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
