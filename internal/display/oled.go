package display

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// NewOLED opens an SSD1306 of the given size on bus.
func NewOLED(bus i2c.Bus, w, h int) (*ssd1306.Dev, error) {
	opts := ssd1306.DefaultOpts
	opts.W = w
	opts.H = h
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("open ssd1306 %dx%d: %w", w, h, err)
	}
	return dev, nil
}
