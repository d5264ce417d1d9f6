package logic

import "fmt"

// Display is the drawing surface. All calls except Flush only touch an
// in-memory frame buffer; Flush transmits it to the panel.
type Display interface {
	EraseRect(x, y, w, h int)
	FillRect(x, y, w, h int)
	EraseBorder(thickness int)
	DrawBorder(thickness int)
	Flush() error
}

// OpKind is the type of a draw operation.
type OpKind int

const (
	OpEraseRect OpKind = iota
	OpFillRect
	OpEraseBorder
	OpDrawBorder
)

func (k OpKind) String() string {
	switch k {
	case OpEraseRect:
		return "ERASE_RECT"
	case OpFillRect:
		return "FILL_RECT"
	case OpEraseBorder:
		return "ERASE_BORDER"
	case OpDrawBorder:
		return "DRAW_BORDER"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is a single draw operation. Rect ops use X, Y, W and H; border ops use
// Thickness.
type Op struct {
	Kind       OpKind
	X, Y, W, H int
	Thickness  int
}

// Frame is the result of one render pass.
type Frame struct {
	Cursor        Point
	Ops           []Op
	BorderChanged bool
}

// Renderer owns the cursor position and computes incremental redraws.
type Renderer struct {
	mapper Mapper
	geom   Geometry
	cursor Point
}

// NewRenderer creates a Renderer with the cursor at the rest position.
func NewRenderer(m Mapper) *Renderer {
	return &Renderer{
		mapper: m,
		geom:   m.Geometry,
		cursor: m.Geometry.Rest(),
	}
}

// Cursor returns the current cursor position.
func (r *Renderer) Cursor() Point {
	return r.cursor
}

// Clamp limits p so the square stays inside a border of the given thickness.
func (r *Renderer) Clamp(p Point, thickness int) Point {
	return Point{
		X: clamp(p.X, thickness, r.geom.Width-r.geom.SquareSize-thickness),
		Y: clamp(p.Y, thickness, r.geom.Height-r.geom.SquareSize-thickness),
	}
}

// Initial returns the ops that draw the startup screen: the border at the
// current thickness and the square at the cursor.
func (r *Renderer) Initial(s *Interaction) Frame {
	t := s.BorderThickness()
	r.cursor = r.Clamp(r.cursor, t)
	n := r.geom.SquareSize
	return Frame{
		Cursor: r.cursor,
		Ops: []Op{
			{Kind: OpDrawBorder, Thickness: t},
			{Kind: OpFillRect, X: r.cursor.X, Y: r.cursor.Y, W: n, H: n},
		},
	}
}

// Advance moves the cursor according to the raw samples and returns the
// draw operations for this tick. A pending border change is applied first so
// the cursor is always clamped against the border actually on screen. Ops are
// the square erase and fill, then on a border change the old border erase,
// the new border draw and a refill of the square, since a shrinking border's
// erase may cover part of it.
func (r *Renderer) Advance(sampleX, sampleY int, s *Interaction) Frame {
	changed := s.takeBorderDirty()
	var before, after int
	if changed {
		before, after = s.cycleBorder()
	}

	t := s.BorderThickness()
	raw := Point{
		X: r.mapper.Position(sampleX, AxisX),
		Y: r.mapper.Position(sampleY, AxisY),
	}
	next := r.Clamp(raw, t)
	old := r.cursor
	n := r.geom.SquareSize
	fill := Op{Kind: OpFillRect, X: next.X, Y: next.Y, W: n, H: n}

	ops := make([]Op, 0, 5)
	ops = append(ops, r.eraseSquare(old, t), fill)
	if changed {
		ops = append(ops,
			Op{Kind: OpEraseBorder, Thickness: before},
			Op{Kind: OpDrawBorder, Thickness: after},
			fill,
		)
	}

	r.cursor = next
	return Frame{Cursor: next, Ops: ops, BorderChanged: changed}
}

// eraseSquare clips the erase of the old square to the border interior. A
// square placed under the old, thinner border may overlap a border that has
// just grown; the border pixels must survive the erase.
func (r *Renderer) eraseSquare(p Point, thickness int) Op {
	n := r.geom.SquareSize
	x0 := max(p.X, thickness)
	y0 := max(p.Y, thickness)
	x1 := min(p.X+n, r.geom.Width-thickness)
	y1 := min(p.Y+n, r.geom.Height-thickness)
	return Op{Kind: OpEraseRect, X: x0, Y: y0, W: max(x1-x0, 0), H: max(y1-y0, 0)}
}

// Render applies the frame's operations in order and flushes once.
func Render(d Display, f Frame) error {
	for _, op := range f.Ops {
		switch op.Kind {
		case OpEraseRect:
			d.EraseRect(op.X, op.Y, op.W, op.H)
		case OpFillRect:
			d.FillRect(op.X, op.Y, op.W, op.H)
		case OpEraseBorder:
			d.EraseBorder(op.Thickness)
		case OpDrawBorder:
			d.DrawBorder(op.Thickness)
		default:
			panic(fmt.Sprintf("logic: unknown op %v", op.Kind))
		}
	}
	return d.Flush()
}
