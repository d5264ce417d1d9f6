package analog

import (
	"fmt"

	"github.com/sweeney/joypanel/internal/logic"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// Opts configures the ADS1115.
type Opts struct {
	Address   uint16
	ChannelX  int
	ChannelY  int
	Reference physic.ElectricPotential // stick supply voltage, full deflection
	Rate      physic.Frequency
	ADCMax    int
}

// DefaultOpts matches a joystick module powered from 3.3V with VRx on A1
// and VRy on A0.
func DefaultOpts() Opts {
	return Opts{
		Address:   0x48,
		ChannelX:  1,
		ChannelY:  0,
		Reference: 3300 * physic.MilliVolt,
		Rate:      860 * physic.Hertz,
		ADCMax:    logic.DefaultADCMax,
	}
}

// RealReader reads both axes from an ADS1115.
type RealReader struct {
	dev    *ads1x15.Dev
	pins   [2]ads1x15.PinADC
	ref    physic.ElectricPotential
	adcMax int
}

// NewRealReader opens the converter on bus and prepares both channels.
func NewRealReader(bus i2c.Bus, opts Opts) (*RealReader, error) {
	if opts.Reference <= 0 {
		return nil, fmt.Errorf("invalid reference voltage %s", opts.Reference)
	}

	dev, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: opts.Address})
	if err != nil {
		return nil, fmt.Errorf("open ads1115 at %#x: %w", opts.Address, err)
	}

	r := &RealReader{dev: dev, ref: opts.Reference, adcMax: opts.ADCMax}
	for i, ch := range []int{opts.ChannelX, opts.ChannelY} {
		pin, err := dev.PinForChannel(ads1x15.Channel(ch), opts.Reference, opts.Rate, ads1x15.BestQuality)
		if err != nil {
			dev.Halt()
			return nil, fmt.Errorf("configure %s channel %d: %w", logic.Axis(i), ch, err)
		}
		r.pins[i] = pin
	}
	return r, nil
}

// Read converts one axis and scales the voltage to [0, ADCMax].
func (r *RealReader) Read(axis logic.Axis) (int, error) {
	s, err := r.pins[axis].Read()
	if err != nil {
		return 0, fmt.Errorf("read %s axis: %w", axis, err)
	}
	return r.scale(s), nil
}

func (r *RealReader) scale(s analog.Sample) int {
	v := int64(s.V) * int64(r.adcMax) / int64(r.ref)
	if v < 0 {
		return 0
	}
	if v > int64(r.adcMax) {
		return r.adcMax
	}
	return int(v)
}

// Close halts both channels and the converter.
func (r *RealReader) Close() error {
	var errs []error
	for i, p := range r.pins {
		if p == nil {
			continue
		}
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s channel: %w", logic.Axis(i), err))
		}
	}
	if err := r.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ads1115: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
