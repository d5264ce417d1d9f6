//go:build tinygo && rp2040

// Command joypanel-pico is the RP2040 firmware: joystick on the on-chip ADC,
// LEDs on PWM slice 6, OLED on I2C1.
//
//	tinygo flash -target=pico ./cmd/joypanel-pico
package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"

	"github.com/sweeney/joypanel/internal/display"
	"github.com/sweeney/joypanel/internal/logic"
	"github.com/sweeney/joypanel/internal/panel"
	"github.com/sweeney/joypanel/internal/pwm"
	"github.com/sweeney/joypanel/internal/status"
)

const (
	pinRed      = machine.GP13
	pinBlue     = machine.GP12
	pinGreen    = machine.GP11
	pinStick    = machine.GP22 // joystick push-button
	pinButtonA  = machine.GP5
	pinSDA      = machine.GP14
	pinSCL      = machine.GP15
	oledAddress = 0x3C

	tick = 100 * time.Millisecond
)

// edge is a falling edge captured in interrupt context.
type edge struct {
	button logic.Button
	at     time.Duration
}

var (
	boot  = time.Now()
	edges = make(chan edge, 8)
)

func main() {
	m := logic.DefaultMapper()

	machine.InitADC()
	adc := newADC(machine.ADC1, machine.ADC0, m.ADCMax) // VRx on GP27, VRy on GP26

	leds, err := newPWM(machine.PWM6, pinRed, pinBlue, m.Wrap)
	if err != nil {
		fail("pwm", err)
	}

	pinGreen.Configure(machine.PinConfig{Mode: machine.PinOutput})
	green := pinLED{pin: pinGreen}

	if err := machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       pinSDA,
		SCL:       pinSCL,
	}); err != nil {
		fail("i2c", err)
	}
	oled := ssd1306.NewI2C(machine.I2C1)
	oled.Configure(ssd1306.Config{
		Width:   int16(m.Geometry.Width),
		Height:  int16(m.Geometry.Height),
		Address: oledAddress,
	})

	tracker := status.NewTracker(boot, status.Config{
		TickMs:     tick.Milliseconds(),
		DebounceMs: logic.DefaultDebounceDelay.Milliseconds(),
		ADCMax:     m.ADCMax,
		DeadZone:   m.DeadZone,
		Wrap:       m.Wrap,
	})
	session := panel.New(m, logic.DefaultDebounceDelay, panel.Devices{
		Analog:  adc,
		PWM:     leds,
		Green:   green,
		Display: display.NewFramebuffer(m.Geometry.Width, m.Geometry.Height, display.PixelDrawer{Dev: &oled}),
	}, tracker, nil)

	for pin, b := range map[machine.Pin]logic.Button{pinStick: logic.ButtonMode, pinButtonA: logic.ButtonLEDs} {
		watch(pin, b)
	}

	if err := session.Start(time.Now()); err != nil {
		println("startup:", err.Error())
	}

	for {
		drain(session)
		if err := session.Step(); err != nil {
			println("tick:", err.Error())
		}
		time.Sleep(tick)
	}
}

// watch configures pin as a pulled-up input and queues falling edges.
func watch(pin machine.Pin, b logic.Button) {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	err := pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		// Interrupt context: no locks or allocation. Drop if full.
		select {
		case edges <- edge{button: b, at: time.Since(boot)}:
		default:
		}
	})
	if err != nil {
		fail("button interrupt", err)
	}
}

// drain applies queued edges in order.
func drain(s *panel.Session) {
	for {
		select {
		case e := <-edges:
			s.HandleEdge(e.button, e.at)
		default:
			return
		}
	}
}

func fail(what string, err error) {
	for {
		println(what+":", err.Error())
		time.Sleep(time.Second)
	}
}

// adcReader reads both axes from the on-chip 12 bit ADC.
type adcReader struct {
	axes   [2]machine.ADC
	adcMax int
}

func newADC(x, y machine.Pin, adcMax int) *adcReader {
	r := &adcReader{adcMax: adcMax}
	for i, p := range []machine.Pin{x, y} {
		r.axes[i] = machine.ADC{Pin: p}
		r.axes[i].Configure(machine.ADCConfig{})
	}
	return r
}

// Read returns the sample scaled from the 16 bit machine range.
func (r *adcReader) Read(axis logic.Axis) (int, error) {
	v := int(r.axes[axis].Get())
	return v * r.adcMax / 0xffff, nil
}

func (r *adcReader) Close() error { return nil }

// pwmGroup is the subset of a TinyGo PWM peripheral that is used here.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// slicePWM drives red and blue from two channels of one PWM slice.
type slicePWM struct {
	group pwmGroup
	ch    [2]uint8
	wrap  int
}

func newPWM(group pwmGroup, red, blue machine.Pin, wrap int) (*slicePWM, error) {
	// 1kHz keeps the LEDs flicker free.
	if err := group.Configure(machine.PWMConfig{Period: uint64(time.Millisecond)}); err != nil {
		return nil, err
	}
	d := &slicePWM{group: group, wrap: wrap}
	for i, p := range []machine.Pin{red, blue} {
		ch, err := group.Channel(p)
		if err != nil {
			return nil, err
		}
		d.ch[i] = ch
	}
	return d, nil
}

func (d *slicePWM) Set(ch pwm.Channel, duty int) error {
	d.group.Set(d.ch[ch], uint32(uint64(duty)*uint64(d.group.Top())/uint64(d.wrap-1)))
	return nil
}

func (d *slicePWM) Close() error {
	d.group.Set(d.ch[pwm.Red], 0)
	d.group.Set(d.ch[pwm.Blue], 0)
	return nil
}

// pinLED is the green LED on a plain output.
type pinLED struct {
	pin machine.Pin
}

func (l pinLED) Set(on bool) error {
	l.pin.Set(on)
	return nil
}

func (l pinLED) Close() error {
	l.pin.Low()
	return nil
}
