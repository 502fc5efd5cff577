package backend

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/careinsight/recordpdf/fonts"
	"github.com/careinsight/recordpdf/layout"
)

const fpdfFamily = "go"

// FPDF renders through go-pdf/fpdf in point units with the Go Regular and
// Go Bold fonts embedded as UTF-8 fonts.
type FPDF struct {
	pdf     *fpdf.Fpdf
	regular *fonts.TrueType
	bold    *fonts.TrueType
	missing int
}

// NewFPDF loads the bundled Go fonts. The fpdf document itself is created
// with the first page, whose size becomes the document default.
func NewFPDF() (*FPDF, error) {
	regular, err := fonts.GoRegular()
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := fonts.GoBold()
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &FPDF{regular: regular, bold: bold}, nil
}

func (f *FPDF) Name() string { return NameFPDF }

func (f *FPDF) Fonts() layout.FontSet {
	return layout.FontSet{Regular: f.regular, Bold: f.bold}
}

func (f *FPDF) NewPage(width, height float64) error {
	size := fpdf.SizeType{Wd: width, Ht: height}
	if f.pdf == nil {
		pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: size})
		pdf.SetMargins(0, 0, 0)
		pdf.SetAutoPageBreak(false, 0)
		pdf.AddUTF8FontFromBytes(fpdfFamily, "", f.regular.Data())
		pdf.AddUTF8FontFromBytes(fpdfFamily, "B", f.bold.Data())
		f.pdf = pdf
	}
	f.pdf.AddPageFormat("P", size)
	return f.pdf.Error()
}

func (f *FPDF) SetPage(n int) error {
	if f.pdf == nil || n < 1 || n > f.pdf.PageCount() {
		return fmt.Errorf("set page %d: out of range", n)
	}
	f.pdf.SetPage(n)
	return f.pdf.Error()
}

func (f *FPDF) EmitText(t layout.Text) error {
	if f.pdf == nil {
		return layout.ErrNoPage
	}
	style, face := "", f.regular
	if t.Style == layout.Bold {
		style, face = "B", f.bold
	}
	for _, r := range t.Value {
		if !face.HasGlyph(r) {
			f.missing++
		}
	}
	f.pdf.SetFont(fpdfFamily, style, t.Size)
	r, g, b := rgb(t.Color)
	f.pdf.SetTextColor(r, g, b)
	f.pdf.Text(t.X, t.Y, t.Value)
	return f.pdf.Error()
}

// Substituted counts runes the Go fonts have no glyph for.
func (f *FPDF) Substituted() int { return f.missing }

func (f *FPDF) EmitShape(s layout.Shape) error {
	if f.pdf == nil {
		return layout.ErrNoPage
	}
	style := ""
	if s.Fill {
		style += "F"
		r, g, b := rgb(s.FillColor)
		f.pdf.SetFillColor(r, g, b)
	}
	if s.Stroke || !s.Fill {
		style += "D"
		r, g, b := rgb(s.StrokeColor)
		f.pdf.SetDrawColor(r, g, b)
		if s.LineWidth > 0 {
			f.pdf.SetLineWidth(s.LineWidth)
		}
	}
	switch s.Kind {
	case layout.ShapeRect:
		f.pdf.Rect(s.X, s.Y, s.W, s.H, style)
	case layout.ShapeLine:
		f.pdf.Line(s.X, s.Y, s.X2, s.Y2)
	case layout.ShapeCircle:
		f.pdf.Circle(s.X, s.Y, s.R, style)
	default:
		return fmt.Errorf("unsupported shape kind %d", s.Kind)
	}
	return f.pdf.Error()
}

// Bytes writes the document. Catalog sorting and the fixed dates keep the
// object order and info dictionary stable between runs.
func (f *FPDF) Bytes(meta Meta) ([]byte, error) {
	if f.pdf == nil {
		return nil, layout.ErrNoPage
	}
	f.pdf.SetTitle(meta.Title, true)
	f.pdf.SetSubject(meta.Subject, true)
	f.pdf.SetAuthor(meta.Author, true)
	f.pdf.SetCreator(meta.Creator, true)
	f.pdf.SetProducer(meta.Producer, true)
	if !meta.CreatedAt.IsZero() {
		f.pdf.SetCreationDate(meta.CreatedAt)
		f.pdf.SetModificationDate(meta.CreatedAt)
	}
	f.pdf.SetCatalogSort(true)
	f.pdf.SetCompression(meta.Compress)

	var buf bytes.Buffer
	if err := f.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func rgb(c layout.Color) (int, int, int) {
	conv := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return conv(c.R), conv(c.G), conv(c.B)
}
