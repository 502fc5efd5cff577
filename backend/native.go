package backend

import (
	"bytes"
	"fmt"

	"github.com/careinsight/recordpdf/builder"
	"github.com/careinsight/recordpdf/fonts"
	"github.com/careinsight/recordpdf/layout"
	"github.com/careinsight/recordpdf/writer"
)

// Native renders with the builder and writer packages. Layout coordinates
// (top-left origin) are flipped into PDF user space here.
type Native struct {
	b       builder.PDFBuilder
	cur     builder.PageBuilder
	heights []float64
	page    int
	missing int
}

// NewNative returns an empty native backend.
func NewNative() *Native {
	return &Native{b: builder.NewBuilder()}
}

func (n *Native) Name() string { return NameNative }

func (n *Native) Fonts() layout.FontSet {
	return layout.FontSet{Regular: fonts.Helvetica(), Bold: fonts.HelveticaBold()}
}

func (n *Native) NewPage(width, height float64) error {
	n.cur = n.b.NewPage(width, height)
	n.heights = append(n.heights, height)
	n.page = len(n.heights)
	return nil
}

func (n *Native) SetPage(i int) error {
	pb, err := n.b.Page(i)
	if err != nil {
		return err
	}
	n.cur = pb
	n.page = i
	return nil
}

func (n *Native) EmitText(t layout.Text) error {
	if n.cur == nil {
		return layout.ErrNoPage
	}
	n.missing += builder.CountUnencodable(t.Value)
	font := builder.FontRegular
	if t.Style == layout.Bold {
		font = builder.FontBold
	}
	n.cur.DrawText(t.Value, t.X, n.flip(t.Y), builder.TextOptions{
		Font:     font,
		FontSize: t.Size,
		Color:    color(t.Color),
	})
	return nil
}

// Substituted counts runes outside WinAnsi, drawn as '?'.
func (n *Native) Substituted() int { return n.missing }

func (n *Native) EmitShape(s layout.Shape) error {
	if n.cur == nil {
		return layout.ErrNoPage
	}
	opts := builder.PathOptions{
		Fill:        s.Fill,
		FillColor:   color(s.FillColor),
		Stroke:      s.Stroke,
		StrokeColor: color(s.StrokeColor),
		LineWidth:   s.LineWidth,
	}
	switch s.Kind {
	case layout.ShapeRect:
		n.cur.DrawRectangle(s.X, n.flip(s.Y+s.H), s.W, s.H, opts)
	case layout.ShapeLine:
		n.cur.DrawLine(s.X, n.flip(s.Y), s.X2, n.flip(s.Y2), builder.LineOptions{
			StrokeColor: opts.StrokeColor,
			LineWidth:   s.LineWidth,
		})
	case layout.ShapeCircle:
		n.cur.DrawCircle(s.X, n.flip(s.Y), s.R, opts)
	default:
		return fmt.Errorf("unsupported shape kind %d", s.Kind)
	}
	return nil
}

// Bytes builds the document and serializes it deterministically.
func (n *Native) Bytes(meta Meta) ([]byte, error) {
	n.b.SetInfo(builder.Info{
		Title:        meta.Title,
		Subject:      meta.Subject,
		Author:       meta.Author,
		Creator:      meta.Creator,
		Producer:     meta.Producer,
		CreationDate: meta.CreatedAt,
	})
	doc, err := n.b.Build()
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	var buf bytes.Buffer
	if err := writer.Write(doc, &buf, writer.Config{Compress: meta.Compress, Deterministic: true}); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

func (n *Native) flip(y float64) float64 {
	return n.heights[n.page-1] - y
}

func color(c layout.Color) builder.Color {
	return builder.Color{R: c.R, G: c.G, B: c.B}
}
