//go:build !tinygo && cgo

package main

import (
	"errors"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// runWindow opens the simulator window and blocks until it is closed.
func runWindow(s *simulator) error {
	size := canvasSize(s.fb.Bounds())
	g := &game{
		sim:    s,
		canvas: image.NewRGBA(image.Rectangle{Max: size}),
	}

	tps := int(time.Second / s.cfg.Tick())
	if tps < 1 {
		tps = 1
	}
	ebiten.SetWindowTitle("joypanel")
	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetTPS(tps)

	err := ebiten.RunGame(g)
	s.stop()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game runs one panel tick per ebiten update.
type game struct {
	sim    *simulator
	canvas *image.RGBA
	img    *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.sim.step(input{
		left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		mode:  inpututil.IsKeyJustPressed(ebiten.KeyJ),
		leds:  inpututil.IsKeyJustPressed(ebiten.KeyA),
	})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		b := g.canvas.Bounds()
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	compose(g.canvas, g.sim.fb.Image(), g.sim.tracker.Snapshot())
	g.img.WritePixels(g.canvas.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.canvas.Bounds()
	return b.Dx(), b.Dy()
}
