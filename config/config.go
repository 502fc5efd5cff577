// Package config reads recordpdf settings from a TOML file.
//
// Every key is optional; anything left out keeps the built-in default. Lengths
// in the [page] table are millimetres, font sizes are points.
//
//	[page]
//	size = "a4"            # a4, letter or legal; or width_mm/height_mm
//	margin_mm = 20
//	header_mm = 40
//	footer_mm = 15
//	running_header = true
//
//	[fonts]
//	title = 20
//	heading = 16
//	body = 11
//	line_spacing = 1.25
//
//	[branding]
//	product = "CareInsight"
//	tagline = "Privacy-Safe Health Record Summarizer"
//	footer_note = "This document contains privacy-protected health information."
//
//	[output]
//	backend = "native"
//	category = "Summary"
//	fallback = "report"
//	compress = true
//
//	[redact]
//	enabled = true
//	[[redact.rules]]           # applied after the built-in rules
//	label = "MRN"
//	pattern = '\bMRN-\d+\b'
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/careinsight/recordpdf/export"
	"github.com/careinsight/recordpdf/layout"
	"github.com/careinsight/recordpdf/redact"
)

// ErrUnknownPageSize is returned for a [page] size name that is not known.
var ErrUnknownPageSize = errors.New("unknown page size")

// File mirrors the TOML document.
type File struct {
	Page     Page     `toml:"page"`
	Fonts    Fonts    `toml:"fonts"`
	Branding Branding `toml:"branding"`
	Output   Output   `toml:"output"`
	Redact   Redact   `toml:"redact"`
}

type Page struct {
	Size          string   `toml:"size"`
	WidthMM       *float64 `toml:"width_mm"`
	HeightMM      *float64 `toml:"height_mm"`
	MarginMM      *float64 `toml:"margin_mm"`
	Margins       *Margins `toml:"margins"`
	HeaderMM      *float64 `toml:"header_mm"`
	FooterMM      *float64 `toml:"footer_mm"`
	RunningHeader *bool    `toml:"running_header"`
}

// Margins overrides single sides, in millimetres.
type Margins struct {
	Top    *float64 `toml:"top"`
	Bottom *float64 `toml:"bottom"`
	Left   *float64 `toml:"left"`
	Right  *float64 `toml:"right"`
}

type Fonts struct {
	Title       *float64 `toml:"title"`
	Heading     *float64 `toml:"heading"`
	Body        *float64 `toml:"body"`
	Meta        *float64 `toml:"meta"`
	Footer      *float64 `toml:"footer"`
	LineSpacing *float64 `toml:"line_spacing"`
}

type Branding struct {
	Product        string  `toml:"product"`
	Tagline        *string `toml:"tagline"`
	FooterNote     *string `toml:"footer_note"`
	SubjectLabel   string  `toml:"subject_label"`
	GeneratedLabel string  `toml:"generated_label"`
	Author         string  `toml:"author"`
}

type Output struct {
	Backend  string `toml:"backend"`
	Category string `toml:"category"`
	Fallback string `toml:"fallback"`
	Compress *bool  `toml:"compress"`
	Dir      string `toml:"dir"`
}

// Redact turns on identifier redaction and adds site rules.
type Redact struct {
	Enabled bool       `toml:"enabled"`
	Rules   []RuleSpec `toml:"rules"`
}

type RuleSpec struct {
	Label   string `toml:"label"`
	Pattern string `toml:"pattern"`
}

// Redactor returns the configured redactor, or nil when redaction is off.
func (r Redact) Redactor() (*redact.Redactor, error) {
	if !r.Enabled {
		return nil, nil
	}
	rules := make([]redact.Rule, 0, len(r.Rules))
	for _, rs := range r.Rules {
		if strings.TrimSpace(rs.Label) == "" {
			return nil, fmt.Errorf("redact rule %q: label is empty", rs.Pattern)
		}
		rule, err := redact.NewRule(strings.ToUpper(rs.Label), rs.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redact rule %s: %w", rs.Label, err)
		}
		rules = append(rules, rule)
	}
	return redact.Default().With(rules...), nil
}

// Load reads and parses the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes TOML; unknown keys are rejected so typos surface.
func Parse(data []byte) (File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}

var pageSizes = map[string][2]float64{
	"a4":     {layout.A4Width, layout.A4Height},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// Layout applies the [page], [fonts] and [branding] tables to the default
// page configuration.
func (f File) Layout() (layout.Config, error) {
	c := layout.DefaultConfig()
	p := f.Page

	if p.Size != "" {
		size, ok := pageSizes[strings.ToLower(strings.TrimSpace(p.Size))]
		if !ok {
			return layout.Config{}, fmt.Errorf("%w: %q", ErrUnknownPageSize, p.Size)
		}
		c.PageWidth, c.PageHeight = size[0], size[1]
	}
	setMM(&c.PageWidth, p.WidthMM)
	setMM(&c.PageHeight, p.HeightMM)
	if p.MarginMM != nil {
		m := layout.MM(*p.MarginMM)
		c.Margins = layout.Margins{Top: m, Bottom: m, Left: m, Right: m}
	}
	if p.Margins != nil {
		setMM(&c.Margins.Top, p.Margins.Top)
		setMM(&c.Margins.Bottom, p.Margins.Bottom)
		setMM(&c.Margins.Left, p.Margins.Left)
		setMM(&c.Margins.Right, p.Margins.Right)
	}
	setMM(&c.HeaderHeight, p.HeaderMM)
	setMM(&c.FooterHeight, p.FooterMM)
	if p.RunningHeader != nil {
		c.RunningHeader = *p.RunningHeader
	}

	layout.WithFontSizes(
		valueOr(f.Fonts.Title, c.TitleSize),
		valueOr(f.Fonts.Heading, c.HeadingSize),
		valueOr(f.Fonts.Body, c.BodySize),
	)(&c)
	set(&c.MetaSize, f.Fonts.Meta)
	set(&c.FooterSize, f.Fonts.Footer)
	set(&c.LineSpacing, f.Fonts.LineSpacing)

	b := f.Branding
	if b.Product != "" {
		c.Brand = b.Product
	}
	if b.Tagline != nil {
		c.Tagline = *b.Tagline
	}
	if b.FooterNote != nil {
		c.FooterNote = *b.FooterNote
	}
	if b.SubjectLabel != "" {
		c.SubjectLabel = b.SubjectLabel
	}
	if b.GeneratedLabel != "" {
		c.GeneratedLabel = b.GeneratedLabel
	}
	return c, nil
}

// ExportOptions builds exporter options from the whole file. Clock and
// Logger are left for the caller.
func (f File) ExportOptions() (export.Options, error) {
	cfg, err := f.Layout()
	if err != nil {
		return export.Options{}, err
	}
	opts := export.Options{
		Backend:  f.Output.Backend,
		Layout:   cfg,
		Product:  f.Branding.Product,
		Category: f.Output.Category,
		Fallback: f.Output.Fallback,
		Author:   f.Branding.Author,
		Compress: true,
	}
	if f.Output.Compress != nil {
		opts.Compress = *f.Output.Compress
	}
	if opts.Redact, err = f.Redact.Redactor(); err != nil {
		return export.Options{}, err
	}
	return opts, nil
}

func valueOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setMM(dst *float64, v *float64) {
	if v != nil {
		*dst = layout.MM(*v)
	}
}
