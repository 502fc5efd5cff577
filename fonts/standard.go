package fonts

import "golang.org/x/text/encoding/charmap"

// Metrics measures rendered text for a single font face.
type Metrics interface {
	// Name is the font's PostScript name.
	Name() string
	// Width returns the advance width of text at the given size, in points.
	Width(text string, size float64) float64
}

// Standard measures one of the PDF Standard-14 fonts from its AFM widths.
type Standard struct {
	name     string
	widths   map[rune]float64
	fallback float64
}

var (
	helveticaWidths     = winAnsiWidths(&helveticaCodes)
	helveticaBoldWidths = winAnsiWidths(&helveticaBoldCodes)
)

// Helvetica returns metrics for the core Helvetica font.
func Helvetica() *Standard {
	return &Standard{name: "Helvetica", widths: helveticaWidths, fallback: helveticaWidths['?']}
}

// HelveticaBold returns metrics for the core Helvetica-Bold font.
func HelveticaBold() *Standard {
	return &Standard{name: "Helvetica-Bold", widths: helveticaBoldWidths, fallback: helveticaBoldWidths['?']}
}

func (s *Standard) Name() string { return s.name }

// Width sums glyph widths in 1/1000 em. Every rune with a WinAnsi code has
// an entry; any other rune measures as '?', which is what the WinAnsi
// encoder writes in its place.
func (s *Standard) Width(text string, size float64) float64 {
	total := 0.0
	for _, r := range text {
		if w, ok := s.widths[r]; ok {
			total += w
			continue
		}
		total += s.fallback
	}
	return total * size / 1000
}

// HasGlyph reports whether r has its own width entry.
func (s *Standard) HasGlyph(r rune) bool {
	_, ok := s.widths[r]
	return ok
}

// winAnsiWidths keys a code-indexed AFM width table by the rune each
// WinAnsiEncoding byte decodes to. Zero marks an unassigned code.
func winAnsiWidths(codes *[224]uint16) map[rune]float64 {
	m := make(map[rune]float64, len(codes))
	for i, w := range codes {
		if w == 0 {
			continue
		}
		m[charmap.Windows1252.DecodeByte(byte(0x20+i))] = float64(w)
	}
	return m
}

// AFM widths for WinAnsiEncoding codes 0x20-0xFF, in 1/1000 em, sixteen
// codes per row.
var helveticaCodes = [224]uint16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, 0,
	556, 0, 222, 556, 333, 1000, 556, 556, 333, 1000, 667, 333, 1000, 0, 611, 0,
	0, 222, 222, 333, 333, 350, 556, 1000, 333, 1000, 500, 333, 944, 0, 500, 667,
	278, 333, 556, 556, 556, 556, 260, 556, 333, 737, 370, 556, 584, 333, 737, 333,
	400, 584, 333, 333, 333, 556, 537, 278, 333, 333, 365, 556, 834, 834, 834, 611,
	667, 667, 667, 667, 667, 667, 1000, 722, 667, 667, 667, 667, 278, 278, 278, 278,
	722, 722, 778, 778, 778, 778, 778, 584, 778, 722, 722, 722, 722, 667, 667, 611,
	556, 556, 556, 556, 556, 556, 889, 500, 556, 556, 556, 556, 278, 278, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 584, 611, 556, 556, 556, 556, 500, 556, 500,
}

var helveticaBoldCodes = [224]uint16{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584, 0,
	556, 0, 278, 556, 500, 1000, 556, 556, 333, 1000, 667, 333, 1000, 0, 611, 0,
	0, 278, 278, 500, 500, 350, 556, 1000, 333, 1000, 556, 333, 944, 0, 500, 667,
	278, 333, 556, 556, 556, 556, 280, 556, 333, 737, 370, 556, 584, 333, 737, 333,
	400, 584, 333, 333, 333, 611, 556, 278, 333, 333, 365, 556, 834, 834, 834, 611,
	722, 722, 722, 722, 722, 722, 1000, 722, 667, 667, 667, 667, 278, 278, 278, 278,
	722, 722, 778, 778, 778, 778, 778, 584, 778, 722, 722, 722, 722, 667, 667, 611,
	556, 556, 556, 556, 556, 556, 889, 556, 556, 556, 556, 556, 278, 278, 278, 278,
	611, 611, 611, 611, 611, 611, 611, 584, 611, 611, 611, 611, 611, 556, 611, 556,
}
