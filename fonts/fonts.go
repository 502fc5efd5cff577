package fonts

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TrueType measures text set in an embedded TrueType/OpenType font by
// shaping it, so kerning and ligatures count toward the width.
type TrueType struct {
	name       string
	data       []byte
	unitsPerEm int
	font       *gofont.Font
}

// LoadTrueType parses a TrueType/OpenType font. The PostScript name recorded
// in the font wins over name when present.
func LoadTrueType(name string, data []byte) (*TrueType, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	parsed, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := int(parsed.UnitsPerEm())
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}

	baseName := strings.TrimSpace(name)
	if ps, _ := parsed.Name(&sfnt.Buffer{}, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "CustomTT"
	}

	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load truetype face: %w", err)
	}
	return &TrueType{
		name:       baseName,
		data:       data,
		unitsPerEm: unitsPerEm,
		font:       face.Font,
	}, nil
}

func (t *TrueType) Name() string { return t.name }

// Data returns the raw font program.
func (t *TrueType) Data() []byte { return t.data }

// UnitsPerEm reports the font's design grid.
func (t *TrueType) UnitsPerEm() int { return t.unitsPerEm }

// Width shapes text at a 1000 unit em and scales the advance to size.
func (t *TrueType) Width(text string, size float64) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	script := detectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gofont.NewFace(t.font),
		Size:      fixed.Int26_6(1000 * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	shaper := &shaping.HarfbuzzShaper{}
	out := shaper.Shape(input)
	advance := float64(out.Advance) / 64.0
	if advance < 0 {
		advance = -advance
	}
	return advance * size / 1000
}

// HasGlyph reports whether the font's cmap maps r to a glyph.
func (t *TrueType) HasGlyph(r rune) bool {
	_, ok := t.font.NominalGlyph(r)
	return ok
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}
