// Package display implements the panel's drawing surface: a 1 bit frame
// buffer that is only transmitted to the OLED on Flush.
package display

import (
	"image"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Drawer receives whole frames. *ssd1306.Dev satisfies it.
type Drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Framebuffer is an in-memory monochrome frame. Draw calls only mutate
// memory; Flush sends the frame to the Drawer if any pixel changed.
type Framebuffer struct {
	img     *image1bit.VerticalLSB
	out     Drawer
	dirty   bool
	flushes int
}

// NewFramebuffer creates a cleared w×h frame that flushes to out.
// out may be nil, in which case Flush only resets the dirty flag.
func NewFramebuffer(w, h int, out Drawer) *Framebuffer {
	return &Framebuffer{
		img: image1bit.NewVerticalLSB(image.Rect(0, 0, w, h)),
		out: out,
	}
}

// Bounds returns the frame size.
func (f *Framebuffer) Bounds() image.Rectangle {
	return f.img.Bounds()
}

// Image returns the frame. Callers must not modify it.
func (f *Framebuffer) Image() *image1bit.VerticalLSB {
	return f.img
}

// At reports whether pixel (x, y) is lit.
func (f *Framebuffer) At(x, y int) bool {
	return bool(f.img.BitAt(x, y))
}

// Dirty reports whether the frame changed since the last Flush.
func (f *Framebuffer) Dirty() bool {
	return f.dirty
}

// Flushes returns the number of frames transmitted.
func (f *Framebuffer) Flushes() int {
	return f.flushes
}

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	f.set(f.img.Bounds(), image1bit.Off)
}

// EraseRect turns off the w×h rectangle at (x, y).
func (f *Framebuffer) EraseRect(x, y, w, h int) {
	f.set(image.Rect(x, y, x+w, y+h), image1bit.Off)
}

// FillRect turns on the w×h rectangle at (x, y).
func (f *Framebuffer) FillRect(x, y, w, h int) {
	f.set(image.Rect(x, y, x+w, y+h), image1bit.On)
}

// EraseBorder turns off the outermost thickness pixels on every edge.
func (f *Framebuffer) EraseBorder(thickness int) {
	f.border(thickness, image1bit.Off)
}

// DrawBorder turns on the outermost thickness pixels on every edge.
func (f *Framebuffer) DrawBorder(thickness int) {
	f.border(thickness, image1bit.On)
}

// Flush transmits the frame if it changed.
func (f *Framebuffer) Flush() error {
	if !f.dirty {
		return nil
	}
	if f.out != nil {
		if err := f.out.Draw(f.img.Bounds(), f.img, image.Point{}); err != nil {
			return err
		}
		f.flushes++
	}
	f.dirty = false
	return nil
}

func (f *Framebuffer) border(t int, c image1bit.Bit) {
	if t <= 0 {
		return
	}
	b := f.img.Bounds()
	f.set(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+t), c)
	f.set(image.Rect(b.Min.X, b.Max.Y-t, b.Max.X, b.Max.Y), c)
	f.set(image.Rect(b.Min.X, b.Min.Y, b.Min.X+t, b.Max.Y), c)
	f.set(image.Rect(b.Max.X-t, b.Min.Y, b.Max.X, b.Max.Y), c)
}

func (f *Framebuffer) set(r image.Rectangle, c image1bit.Bit) {
	r = r.Intersect(f.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.img.BitAt(x, y) != c {
				f.img.SetBit(x, y, c)
				f.dirty = true
			}
		}
	}
}
