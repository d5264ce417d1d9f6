//go:build !tinygo

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sweeney/joypanel/internal/status"
)

const (
	pixelScale = 4
	hudHeight  = 64
	swatchSize = 24
)

var (
	pixelOn  = color.RGBA{0x9c, 0xd8, 0xff, 0xff}
	pixelOff = color.RGBA{0x00, 0x00, 0x00, 0xff}
	hudBG    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	hudText  = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
)

// canvasSize returns the window size for a w×h panel.
func canvasSize(panel image.Rectangle) image.Point {
	return image.Pt(panel.Dx()*pixelScale, panel.Dy()*pixelScale+hudHeight)
}

// compose paints the scaled panel and a status strip into dst.
func compose(dst *image.RGBA, fb *image1bit.VerticalLSB, snap status.Snapshot) {
	b := fb.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := pixelOff
			if fb.BitAt(x, y) {
				c = pixelOn
			}
			r := image.Rect(x*pixelScale, y*pixelScale, (x+1)*pixelScale, (y+1)*pixelScale)
			draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	top := b.Dy() * pixelScale
	hud := image.Rect(0, top, dst.Bounds().Dx(), top+hudHeight)
	draw.Draw(dst, hud, image.NewUniform(hudBG), image.Point{}, draw.Src)

	wrap := snap.Config.Wrap
	swatches := []color.RGBA{
		{R: level(snap.Outputs.RedDuty, wrap), A: 0xff},
		{B: level(snap.Outputs.BlueDuty, wrap), A: 0xff},
		{G: onOff(snap.Outputs.Green), A: 0xff},
	}
	for i, c := range swatches {
		x := 8 + i*(swatchSize+8)
		r := image.Rect(x, top+8, x+swatchSize, top+8+swatchSize)
		draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
	}

	leds := "on"
	if !snap.State.JoystickLEDs {
		leds = "off"
	}
	textX := 8 + len(swatches)*(swatchSize+8)
	drawText(dst, textX, top+18, fmt.Sprintf("x=%d y=%d cursor=(%d,%d) border=%d",
		snap.SampleX, snap.SampleY, snap.Cursor.X, snap.Cursor.Y, snap.State.BorderThickness))
	drawText(dst, textX, top+34, fmt.Sprintf("leds=%s red=%d blue=%d",
		leds, snap.Outputs.RedDuty, snap.Outputs.BlueDuty))
	drawText(dst, 8, top+54, fmt.Sprintf("edges mode=%d leds=%d dropped=%d ticks=%d errors=%d",
		snap.Counts.Mode, snap.Counts.LEDs, snap.Counts.Discarded, snap.Ticks, snap.Errors))
}

// level maps a duty to an 8 bit intensity.
func level(duty, wrap int) uint8 {
	if wrap <= 1 || duty <= 0 {
		return 0
	}
	if duty >= wrap-1 {
		return 0xff
	}
	return uint8(duty * 0xff / (wrap - 1))
}

func onOff(on bool) uint8 {
	if on {
		return 0xff
	}
	return 0
}

func drawText(dst draw.Image, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(hudText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
