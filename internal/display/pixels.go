package display

import (
	"image"
	"image/color"
)

// Pixels is a display that is written pixel by pixel into its own buffer,
// like the TinyGo drivers.
type Pixels interface {
	SetPixel(x, y int16, c color.RGBA)
	Display() error
}

var (
	pixelOn  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pixelOff = color.RGBA{A: 255}
)

// PixelDrawer adapts a Pixels display to Drawer.
type PixelDrawer struct {
	Dev Pixels
}

// Draw copies r from src into the device buffer and displays it.
func (p PixelDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := pixelOff
			if lit(src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)) {
				c = pixelOn
			}
			p.Dev.SetPixel(int16(x), int16(y), c)
		}
	}
	return p.Dev.Display()
}

func lit(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y >= 0x80
}
