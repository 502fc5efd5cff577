package layout

import (
	"errors"
	"fmt"

	"github.com/careinsight/recordpdf/fonts"
)

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// ErrInvalidGeometry reports a page configuration that leaves no room for
// content.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// ErrMissingFonts reports a Config without font metrics.
var ErrMissingFonts = errors.New("font metrics are not set")

// MM converts millimetres to points.
func MM(v float64) float64 { return v * 72 / 25.4 }

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Color is an RGB color with components in [0,1].
type Color struct {
	R, G, B float64
}

// RGB builds a Color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FontSet holds the metrics for the two faces the renderer uses. They must
// describe the fonts the sink actually draws with.
type FontSet struct {
	Regular fonts.Metrics
	Bold    fonts.Metrics
}

func (f FontSet) metrics(s Style) fonts.Metrics {
	if s == Bold {
		return f.Bold
	}
	return f.Regular
}

// Config is the page geometry, typography and branding for a render.
type Config struct {
	PageWidth  float64
	PageHeight float64
	Margins    Margins

	BrandSize   float64
	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	MetaSize    float64
	FooterSize  float64
	LineSpacing float64 // multiplier applied to font size

	HeaderHeight float64 // banner band on the first page
	HeaderGap    float64 // space between banner and title
	FooterHeight float64 // reserved band above the bottom edge

	TitleGap     float64
	MetaGap      float64
	DividerGap   float64
	HeadingGap   float64
	PointGap     float64
	SectionGap   float64
	BulletIndent float64
	BulletRadius float64

	HeaderColor  Color
	AccentColor  Color
	BrandColor   Color
	TitleColor   Color
	MetaColor    Color
	BodyColor    Color
	DividerColor Color
	FooterColor  Color

	Brand          string
	Tagline        string
	FooterNote     string
	SubjectLabel   string
	GeneratedLabel string
	RunningHeader  bool

	Fonts FontSet
}

// Option mutates a Config.
type Option func(*Config)

// WithPageSize sets the page dimensions.
func WithPageSize(width, height float64) Option {
	return func(c *Config) {
		c.PageWidth = width
		c.PageHeight = height
	}
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(c *Config) {
		c.Margins = m
	}
}

// WithFonts sets the metrics used for wrapping and alignment.
func WithFonts(f FontSet) Option {
	return func(c *Config) {
		c.Fonts = f
	}
}

// WithFontSizes sets title, heading and body sizes.
func WithFontSizes(title, heading, body float64) Option {
	return func(c *Config) {
		c.TitleSize = title
		c.HeadingSize = heading
		c.BodySize = body
	}
}

// WithBands sets the header banner and footer reservation heights.
func WithBands(header, footer float64) Option {
	return func(c *Config) {
		c.HeaderHeight = header
		c.FooterHeight = footer
	}
}

// WithRunningHeader toggles the brand line on continuation pages.
func WithRunningHeader(on bool) Option {
	return func(c *Config) {
		c.RunningHeader = on
	}
}

// DefaultConfig returns an A4 portrait layout with 20 mm margins, a 40 mm
// banner and a 15 mm footer band.
func DefaultConfig() Config {
	return Config{
		PageWidth:  A4Width,
		PageHeight: A4Height,
		Margins: Margins{
			Top:    MM(20),
			Bottom: MM(20),
			Left:   MM(20),
			Right:  MM(20),
		},
		BrandSize:   24,
		TitleSize:   20,
		HeadingSize: 16,
		BodySize:    11,
		MetaSize:    10,
		FooterSize:  8,
		LineSpacing: 1.25,

		HeaderHeight: MM(40),
		HeaderGap:    MM(10),
		FooterHeight: MM(15),

		TitleGap:     MM(8),
		MetaGap:      MM(5),
		DividerGap:   MM(10),
		HeadingGap:   MM(4),
		PointGap:     MM(3),
		SectionGap:   MM(5),
		BulletIndent: MM(6),
		BulletRadius: MM(1),

		HeaderColor:  RGB(30, 41, 59),
		AccentColor:  RGB(59, 130, 246),
		BrandColor:   RGB(255, 255, 255),
		TitleColor:   RGB(0, 0, 0),
		MetaColor:    RGB(100, 100, 100),
		BodyColor:    RGB(50, 50, 50),
		DividerColor: RGB(200, 200, 200),
		FooterColor:  RGB(150, 150, 150),

		Brand:          "CareInsight",
		Tagline:        "Privacy-Safe Health Record Summarizer",
		FooterNote:     "This document contains privacy-protected health information.",
		SubjectLabel:   "Patient ID",
		GeneratedLabel: "Generated",
		RunningHeader:  true,

		Fonts: FontSet{Regular: fonts.Helvetica(), Bold: fonts.HelveticaBold()},
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ContentWidth is the horizontal space between the side margins.
func (c Config) ContentWidth() float64 {
	return c.PageWidth - c.Margins.Left - c.Margins.Right
}

// ContentBottom is the lowest offset a line box may reach.
func (c Config) ContentBottom() float64 {
	return c.PageHeight - max(c.Margins.Bottom, c.FooterHeight)
}

// ContentHeight is the vertical space available on a continuation page.
func (c Config) ContentHeight() float64 {
	return c.ContentBottom() - c.Margins.Top
}

// LineHeight returns the line box height for a font size.
func (c Config) LineHeight(size float64) float64 {
	return size * c.LineSpacing
}

// Validate checks that a line of every size fits between the margins and
// that the footer band holds one footer line. It does not inspect colors or
// strings.
func (c Config) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("%w: page %vx%v", ErrInvalidGeometry, c.PageWidth, c.PageHeight)
	}
	if c.ContentWidth() <= 0 {
		return fmt.Errorf("%w: content width %v", ErrInvalidGeometry, c.ContentWidth())
	}
	if c.ContentHeight() <= 0 {
		return fmt.Errorf("%w: content height %v", ErrInvalidGeometry, c.ContentHeight())
	}
	if c.ContentWidth() <= c.BulletIndent {
		return fmt.Errorf("%w: bullet indent %v leaves no room for text", ErrInvalidGeometry, c.BulletIndent)
	}
	if c.LineSpacing < 1 {
		return fmt.Errorf("%w: line spacing %v is below 1", ErrInvalidGeometry, c.LineSpacing)
	}
	for _, size := range []float64{c.TitleSize, c.HeadingSize, c.BodySize, c.MetaSize, c.FooterSize} {
		if size <= 0 {
			return fmt.Errorf("%w: font size %v", ErrInvalidGeometry, size)
		}
		if c.LineHeight(size) > c.ContentHeight() {
			return fmt.Errorf("%w: line height %v exceeds content height %v", ErrInvalidGeometry, c.LineHeight(size), c.ContentHeight())
		}
	}
	if c.FooterHeight < c.LineHeight(c.FooterSize) {
		return fmt.Errorf("%w: footer band %v is shorter than one footer line %v", ErrInvalidGeometry, c.FooterHeight, c.LineHeight(c.FooterSize))
	}
	if c.Fonts.Regular == nil || c.Fonts.Bold == nil {
		return ErrMissingFonts
	}
	return nil
}
