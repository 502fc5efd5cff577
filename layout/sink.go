package layout

import (
	"errors"
	"fmt"
)

// Style selects the regular or bold face.
type Style int

const (
	Regular Style = iota
	Bold
)

func (s Style) String() string {
	if s == Bold {
		return "bold"
	}
	return "regular"
}

// Text is a single line of text. Coordinates are in points from the top-left
// corner of the page; Y is the baseline.
type Text struct {
	X, Y  float64
	Value string
	Style Style
	Size  float64
	Color Color
}

// ShapeKind enumerates the vector primitives a sink draws.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeLine
	ShapeCircle
)

// Shape is a vector primitive in top-left page coordinates. Rect uses X, Y,
// W, H; Line runs from (X, Y) to (X2, Y2); Circle is centred on (X, Y) with
// radius R.
type Shape struct {
	Kind        ShapeKind
	X, Y        float64
	W, H        float64
	X2, Y2      float64
	R           float64
	Fill        bool
	FillColor   Color
	Stroke      bool
	StrokeColor Color
	LineWidth   float64
}

// Sink receives laid-out pages. NewPage opens a page and makes it current;
// SetPage re-opens an already emitted page (1-based) so later passes can
// stamp it. Errors are fatal to the render.
type Sink interface {
	NewPage(width, height float64) error
	SetPage(n int) error
	EmitText(t Text) error
	EmitShape(s Shape) error
}

// ErrNoPage is returned when drawing before any page is open.
var ErrNoPage = errors.New("no current page")

// Op is one recorded draw operation; exactly one field is set.
type Op struct {
	Text  *Text
	Shape *Shape
}

// RecordedPage is a page captured by a Recorder.
type RecordedPage struct {
	Width, Height float64
	Ops           []Op
}

// Recorder is an in-memory Sink. It keeps every operation so a layout can be
// inspected or compared without producing a PDF.
type Recorder struct {
	Pages   []RecordedPage
	current int
}

func (r *Recorder) NewPage(width, height float64) error {
	r.Pages = append(r.Pages, RecordedPage{Width: width, Height: height})
	r.current = len(r.Pages)
	return nil
}

func (r *Recorder) SetPage(n int) error {
	if n < 1 || n > len(r.Pages) {
		return fmt.Errorf("set page %d of %d: out of range", n, len(r.Pages))
	}
	r.current = n
	return nil
}

func (r *Recorder) EmitText(t Text) error {
	if r.current == 0 {
		return ErrNoPage
	}
	p := &r.Pages[r.current-1]
	p.Ops = append(p.Ops, Op{Text: &t})
	return nil
}

func (r *Recorder) EmitShape(s Shape) error {
	if r.current == 0 {
		return ErrNoPage
	}
	p := &r.Pages[r.current-1]
	p.Ops = append(p.Ops, Op{Shape: &s})
	return nil
}

// Texts returns the text operations of page n (1-based) in emission order.
func (r *Recorder) Texts(n int) []Text {
	if n < 1 || n > len(r.Pages) {
		return nil
	}
	var out []Text
	for _, op := range r.Pages[n-1].Ops {
		if op.Text != nil {
			out = append(out, *op.Text)
		}
	}
	return out
}

// Replay emits every recorded page into another sink.
func (r *Recorder) Replay(dst Sink) error {
	for i, p := range r.Pages {
		if err := dst.NewPage(p.Width, p.Height); err != nil {
			return fmt.Errorf("replay page %d: %w", i+1, err)
		}
		for _, op := range p.Ops {
			var err error
			switch {
			case op.Text != nil:
				err = dst.EmitText(*op.Text)
			case op.Shape != nil:
				err = dst.EmitShape(*op.Shape)
			}
			if err != nil {
				return fmt.Errorf("replay page %d: %w", i+1, err)
			}
		}
	}
	return nil
}
