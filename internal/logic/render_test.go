package logic

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// recordingDisplay records calls in order.
type recordingDisplay struct {
	calls    []Op
	flushes  int
	flushErr error
}

func (d *recordingDisplay) EraseRect(x, y, w, h int) {
	d.calls = append(d.calls, Op{Kind: OpEraseRect, X: x, Y: y, W: w, H: h})
}

func (d *recordingDisplay) FillRect(x, y, w, h int) {
	d.calls = append(d.calls, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h})
}

func (d *recordingDisplay) EraseBorder(thickness int) {
	d.calls = append(d.calls, Op{Kind: OpEraseBorder, Thickness: thickness})
}

func (d *recordingDisplay) DrawBorder(thickness int) {
	d.calls = append(d.calls, Op{Kind: OpDrawBorder, Thickness: thickness})
}

func (d *recordingDisplay) Flush() error {
	d.flushes++
	return d.flushErr
}

func newTestRenderer() (*Renderer, *Interaction) {
	return NewRenderer(DefaultMapper()), NewInteraction(200 * time.Millisecond)
}

func TestRendererStartsAtRest(t *testing.T) {
	r, _ := newTestRenderer()
	if got := r.Cursor(); got != (Point{X: 60, Y: 28}) {
		t.Errorf("expected rest cursor (60,28), got %+v", got)
	}
}

func TestAdvanceCentredStick(t *testing.T) {
	r, s := newTestRenderer()
	f := r.Advance(2047, 2047, s)

	want := []Op{
		{Kind: OpEraseRect, X: 60, Y: 28, W: 8, H: 8},
		{Kind: OpFillRect, X: 60, Y: 28, W: 8, H: 8},
	}
	if !reflect.DeepEqual(f.Ops, want) {
		t.Errorf("ops: got %+v, want %+v", f.Ops, want)
	}
	if f.BorderChanged {
		t.Error("border should not change without an edge")
	}
}

func TestAdvanceEraseThenDraw(t *testing.T) {
	r, s := newTestRenderer()
	f := r.Advance(4095, 0, s)

	if len(f.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(f.Ops))
	}
	if f.Ops[0].Kind != OpEraseRect || f.Ops[0].X != 60 || f.Ops[0].Y != 28 {
		t.Errorf("first op should erase old square, got %+v", f.Ops[0])
	}
	if f.Ops[1].Kind != OpFillRect || f.Ops[1].X != f.Cursor.X || f.Ops[1].Y != f.Cursor.Y {
		t.Errorf("second op should fill new square, got %+v", f.Ops[1])
	}
}

func TestAdvanceClampsToBorder(t *testing.T) {
	r, s := newTestRenderer()

	// Full right and full down (Y inverted: sample 0 is the bottom).
	f := r.Advance(4095, 0, s)
	if want := (Point{X: 128 - 8 - 1, Y: 64 - 8 - 1}); f.Cursor != want {
		t.Errorf("bottom-right: got %+v, want %+v", f.Cursor, want)
	}

	// Full left and full up.
	f = r.Advance(0, 4095, s)
	if want := (Point{X: 1, Y: 1}); f.Cursor != want {
		t.Errorf("top-left: got %+v, want %+v", f.Cursor, want)
	}
}

func TestAdvanceCursorAlwaysInBounds(t *testing.T) {
	r, s := newTestRenderer()
	g := DefaultGeometry()

	inBounds := func(f Frame) bool {
		lo := s.BorderThickness()
		return f.Cursor.X >= lo && f.Cursor.X <= g.Width-g.SquareSize-lo &&
			f.Cursor.Y >= lo && f.Cursor.Y <= g.Height-g.SquareSize-lo
	}

	for i, thick := range []int{1, 3, 1} {
		if got := s.BorderThickness(); got != thick {
			t.Fatalf("expected thickness %d, got %d", thick, got)
		}
		for sx := 0; sx <= DefaultADCMax; sx += 15 {
			for sy := 0; sy <= DefaultADCMax; sy += 255 {
				if f := r.Advance(sx, sy, s); !inBounds(f) {
					t.Fatalf("thickness %d: cursor %+v out of bounds for samples (%d,%d)", thick, f.Cursor, sx, sy)
				}
			}
		}

		// The tick that consumes the edge must already respect the new border.
		s.HandleEdge(ButtonMode, time.Duration(i+1)*time.Hour)
		if f := r.Advance(0, 4095, s); !inBounds(f) {
			t.Fatalf("toggle %d: cursor %+v outside border %d", i, f.Cursor, s.BorderThickness())
		}
	}
}

func TestAdvanceClampsToNewBorderOnToggle(t *testing.T) {
	r, s := newTestRenderer()

	r.Advance(0, 4095, s)
	s.HandleEdge(ButtonMode, time.Second)
	f := r.Advance(0, 4095, s)
	if s.BorderThickness() != 3 {
		t.Fatalf("expected thickness 3, got %d", s.BorderThickness())
	}
	if f.Cursor != (Point{X: 3, Y: 3}) {
		t.Errorf("grow: got cursor %+v, want (3,3)", f.Cursor)
	}

	s.HandleEdge(ButtonMode, 2*time.Second)
	f = r.Advance(0, 4095, s)
	if f.Cursor != (Point{X: 1, Y: 1}) {
		t.Errorf("shrink: got cursor %+v, want (1,1)", f.Cursor)
	}
	// The square is refilled after the old border erase.
	last := f.Ops[len(f.Ops)-1]
	if want := (Op{Kind: OpFillRect, X: 1, Y: 1, W: 8, H: 8}); last != want {
		t.Errorf("last op: got %+v, want %+v", last, want)
	}
}

func TestAdvanceIdempotent(t *testing.T) {
	r, s := newTestRenderer()
	first := r.Advance(3000, 1000, s)
	second := r.Advance(3000, 1000, s)

	if first.Cursor != second.Cursor {
		t.Errorf("cursor moved: %+v then %+v", first.Cursor, second.Cursor)
	}
	erase, fill := second.Ops[0], second.Ops[1]
	if erase.X != fill.X || erase.Y != fill.Y || erase.W != fill.W || erase.H != fill.H {
		t.Errorf("erase %+v and fill %+v should cover the same region", erase, fill)
	}
	if len(second.Ops) != 2 {
		t.Errorf("expected only square ops, got %d ops", len(second.Ops))
	}
}

func TestAdvanceBorderCycle(t *testing.T) {
	r, s := newTestRenderer()
	want := []int{3, 1, 3, 1}

	for i, w := range want {
		s.HandleEdge(ButtonMode, time.Duration(i+1)*time.Second)
		f := r.Advance(2047, 2047, s)

		if !f.BorderChanged {
			t.Fatalf("press %d: expected border change", i)
		}
		if len(f.Ops) != 5 {
			t.Fatalf("press %d: expected 5 ops, got %d", i, len(f.Ops))
		}
		eraseB, drawB := f.Ops[2], f.Ops[3]
		if eraseB.Kind != OpEraseBorder || drawB.Kind != OpDrawBorder {
			t.Fatalf("press %d: border ops out of order: %+v", i, f.Ops)
		}
		if f.Ops[4] != f.Ops[1] {
			t.Errorf("press %d: square not refilled after border: %+v", i, f.Ops)
		}
		if drawB.Thickness != w {
			t.Errorf("press %d: thickness got %d, want %d", i, drawB.Thickness, w)
		}
		if drawB.Thickness == 0 || drawB.Thickness == 2 {
			t.Errorf("press %d: thickness %d must never be produced", i, drawB.Thickness)
		}
		if s.Snapshot().BorderDirty {
			t.Errorf("press %d: dirty flag not cleared", i)
		}

		// The next pass is back to idle.
		if f := r.Advance(2047, 2047, s); f.BorderChanged {
			t.Errorf("press %d: border changed again without an edge", i)
		}
	}
}

func TestAdvanceBorderEraseUsesOldThickness(t *testing.T) {
	r, s := newTestRenderer()
	s.HandleEdge(ButtonMode, time.Second)
	f := r.Advance(2047, 2047, s)

	if f.Ops[2].Thickness != 1 {
		t.Errorf("erase border: got thickness %d, want 1", f.Ops[2].Thickness)
	}
	if f.Ops[3].Thickness != 3 {
		t.Errorf("draw border: got thickness %d, want 3", f.Ops[3].Thickness)
	}
}

func TestEraseClippedToBorderInterior(t *testing.T) {
	r, s := newTestRenderer()

	// Park the square against the top-left corner under a thin border.
	if f := r.Advance(0, 4095, s); f.Cursor != (Point{X: 1, Y: 1}) {
		t.Fatalf("expected cursor (1,1), got %+v", f.Cursor)
	}

	// Thicken the border: the square moves in to 3 on the same tick and the
	// erase of its old position must not touch the new border.
	s.HandleEdge(ButtonMode, time.Second)
	f := r.Advance(0, 4095, s)
	if f.Cursor != (Point{X: 3, Y: 3}) {
		t.Fatalf("expected cursor (3,3), got %+v", f.Cursor)
	}
	erase := f.Ops[0]
	want := Op{Kind: OpEraseRect, X: 3, Y: 3, W: 6, H: 6}
	if erase != want {
		t.Errorf("erase: got %+v, want %+v", erase, want)
	}
}

func TestInitialFrame(t *testing.T) {
	r, s := newTestRenderer()
	f := r.Initial(s)

	want := []Op{
		{Kind: OpDrawBorder, Thickness: 1},
		{Kind: OpFillRect, X: 60, Y: 28, W: 8, H: 8},
	}
	if !reflect.DeepEqual(f.Ops, want) {
		t.Errorf("ops: got %+v, want %+v", f.Ops, want)
	}
}

func TestRenderAppliesInOrderAndFlushesOnce(t *testing.T) {
	r, s := newTestRenderer()
	s.HandleEdge(ButtonMode, time.Second)
	f := r.Advance(4095, 2047, s)

	d := &recordingDisplay{}
	if err := Render(d, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(d.calls, f.Ops) {
		t.Errorf("calls: got %+v, want %+v", d.calls, f.Ops)
	}
	if d.flushes != 1 {
		t.Errorf("expected 1 flush, got %d", d.flushes)
	}
}

func TestRenderFlushError(t *testing.T) {
	r, s := newTestRenderer()
	d := &recordingDisplay{flushErr: errors.New("i2c nack")}

	err := Render(d, r.Advance(2047, 2047, s))
	if err == nil || err.Error() != "i2c nack" {
		t.Errorf("expected flush error, got %v", err)
	}
}
