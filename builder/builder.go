package builder

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// PDFBuilder provides a fluent API for PDF construction. Coordinates are PDF
// user space: origin at the bottom-left corner, y growing upwards.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	// Page re-opens an existing page (1-based) so more content can be drawn on it.
	Page(n int) (PageBuilder, error)
	PageCount() int
	SetInfo(info Info) PDFBuilder
	Build() (*Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	DrawCircle(cx, cy, r float64, opts PathOptions) PageBuilder
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font     string // resource name, e.g. "F1"
	FontSize float64
	Color    Color
}

// PathOptions configures path painting.
type PathOptions struct {
	StrokeColor Color
	FillColor   Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}

// RectOptions configures rectangle drawing (defaults to stroke if neither fill nor stroke is set).
type RectOptions = PathOptions

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Info is the document information dictionary.
type Info struct {
	Title        string
	Subject      string
	Author       string
	Creator      string
	Producer     string
	CreationDate time.Time
}

// Document is the builder output consumed by the writer.
type Document struct {
	Pages []*Page
	Info  *Info
	// Fonts maps resource names to Standard-14 base font names.
	Fonts map[string]string
}

// Page is one page of drawing operations.
type Page struct {
	Width, Height float64
	Operations    []Operation
	// Fonts lists the font resources the page uses, in first-use order.
	Fonts []string
}

// Operation is a content stream operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a content stream operand: Number, Name or String.
type Operand interface{ operand() }

type (
	Number float64
	Name   string
	// String holds already-encoded bytes.
	String []byte
)

func (Number) operand() {}
func (Name) operand()   {}
func (String) operand() {}

// ErrNoPages is returned by Build when no page was added.
var ErrNoPages = errors.New("document has no pages")

const (
	FontRegular = "F1"
	FontBold    = "F2"

	defaultFontSize = 12
	// kappa places the control points of a cubic Bézier quarter circle.
	kappa = 0.5522847498
)

type builderImpl struct {
	pages   []*Page
	info    *Info
	fonts   map[string]string
	fontErr error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *Page
}

// NewBuilder constructs a PDFBuilder with Helvetica as F1 and Helvetica-Bold
// as F2.
func NewBuilder() PDFBuilder {
	return &builderImpl{fonts: map[string]string{
		FontRegular: "Helvetica",
		FontBold:    "Helvetica-Bold",
	}}
}

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &Page{Width: w, Height: h}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) Page(n int) (PageBuilder, error) {
	if n < 1 || n > len(b.pages) {
		return nil, fmt.Errorf("page %d of %d: out of range", n, len(b.pages))
	}
	return &pageBuilderImpl{parent: b, page: b.pages[n-1]}, nil
}

func (b *builderImpl) PageCount() int { return len(b.pages) }

func (b *builderImpl) SetInfo(info Info) PDFBuilder {
	b.info = &info
	return b
}

func (b *builderImpl) Build() (*Document, error) {
	if b.fontErr != nil {
		return nil, b.fontErr
	}
	if len(b.pages) == 0 {
		return nil, ErrNoPages
	}
	fonts := make(map[string]string, len(b.fonts))
	for k, v := range b.fonts {
		fonts[k] = v
	}
	return &Document{Pages: b.pages, Info: b.info, Fonts: fonts}, nil
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	fontName := opts.Font
	if fontName == "" {
		fontName = FontRegular
	}
	if _, ok := p.parent.fonts[fontName]; !ok {
		if p.parent.fontErr == nil {
			p.parent.fontErr = fmt.Errorf("font resource %q is not registered", fontName)
		}
		return p
	}
	p.useFont(fontName)
	size := opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}

	p.emit("BT")
	p.emit("Tf", Name(fontName), Number(size))
	p.emit("Tm", Number(1), Number(0), Number(0), Number(1), Number(x), Number(y))
	p.emit("rg", colorOperands(opts.Color)...)
	p.emit("Tj", String(EncodeWinAnsi(text)))
	p.emit("ET")
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	po := opts
	if !po.Stroke && !po.Fill {
		po.Stroke = true
	}
	p.emit("q")
	p.applyPathState(po)
	p.emit("re", Number(x), Number(y), Number(width), Number(height))
	p.emit(paintOperator(po.Fill, po.Stroke))
	p.emit("Q")
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	p.emit("q")
	p.applyPathState(PathOptions{StrokeColor: opts.StrokeColor, LineWidth: opts.LineWidth, Stroke: true})
	p.emit("m", Number(x1), Number(y1))
	p.emit("l", Number(x2), Number(y2))
	p.emit("S")
	p.emit("Q")
	return p
}

// DrawCircle approximates the circle with four Bézier quarter arcs, starting
// at the rightmost point and running counter-clockwise.
func (p *pageBuilderImpl) DrawCircle(cx, cy, r float64, opts PathOptions) PageBuilder {
	po := opts
	if !po.Stroke && !po.Fill {
		po.Stroke = true
	}
	k := kappa * r
	p.emit("q")
	p.applyPathState(po)
	p.emit("m", Number(cx+r), Number(cy))
	p.emit("c", Number(cx+r), Number(cy+k), Number(cx+k), Number(cy+r), Number(cx), Number(cy+r))
	p.emit("c", Number(cx-k), Number(cy+r), Number(cx-r), Number(cy+k), Number(cx-r), Number(cy))
	p.emit("c", Number(cx-r), Number(cy-k), Number(cx-k), Number(cy-r), Number(cx), Number(cy-r))
	p.emit("c", Number(cx+k), Number(cy-r), Number(cx+r), Number(cy-k), Number(cx+r), Number(cy))
	p.emit("h")
	p.emit(paintOperator(po.Fill, po.Stroke))
	p.emit("Q")
	return p
}

func (p *pageBuilderImpl) emit(operator string, operands ...Operand) {
	p.page.Operations = append(p.page.Operations, Operation{Operator: operator, Operands: operands})
}

func (p *pageBuilderImpl) useFont(name string) {
	for _, f := range p.page.Fonts {
		if f == name {
			return
		}
	}
	p.page.Fonts = append(p.page.Fonts, name)
}

func (p *pageBuilderImpl) applyPathState(opts PathOptions) {
	if opts.Fill {
		p.emit("rg", colorOperands(opts.FillColor)...)
	}
	if opts.Stroke {
		p.emit("RG", colorOperands(opts.StrokeColor)...)
		if opts.LineWidth > 0 {
			p.emit("w", Number(opts.LineWidth))
		}
	}
}

func colorOperands(c Color) []Operand {
	return []Operand{Number(c.R), Number(c.G), Number(c.B)}
}

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}

// EncodeWinAnsi converts text to the single-byte WinAnsiEncoding used by the
// core fonts. Runes with no WinAnsi glyph become '?'.
func EncodeWinAnsi(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := winAnsiByte(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// CountUnencodable returns how many runes of text EncodeWinAnsi replaces.
func CountUnencodable(text string) int {
	n := 0
	for _, r := range text {
		if _, ok := winAnsiByte(r); !ok {
			n++
		}
	}
	return n
}

// winAnsiByte rejects control characters, which Windows-1252 maps to codes
// the core fonts have no glyph for.
func winAnsiByte(r rune) (byte, bool) {
	if unicode.IsControl(r) {
		return 0, false
	}
	return charmap.Windows1252.EncodeRune(r)
}
