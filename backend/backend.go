// Package backend holds the layout.Sink implementations that produce PDF
// bytes. Native draws through the builder and writer packages with the core
// Helvetica fonts; FPDF draws through github.com/go-pdf/fpdf with the
// embedded Go fonts and so renders any Unicode text.
package backend

import (
	"fmt"
	"time"

	"github.com/careinsight/recordpdf/layout"
)

// Backend is a sink that can serialize everything it received.
type Backend interface {
	layout.Sink
	Name() string
	// Fonts returns metrics matching the faces the backend draws with.
	Fonts() layout.FontSet
	// Substituted counts the runes drawn so far with a replacement glyph
	// because the backend's fonts cannot show them.
	Substituted() int
	// Bytes finalizes the document. It is called once, after the render.
	Bytes(meta Meta) ([]byte, error)
}

// Meta is the document information written into the file.
type Meta struct {
	Title     string
	Subject   string
	Author    string
	Creator   string
	Producer  string
	CreatedAt time.Time
	Compress  bool
}

const (
	NameNative = "native"
	NameFPDF   = "fpdf"
)

// New returns a fresh backend by name.
func New(name string) (Backend, error) {
	switch name {
	case "", NameNative:
		return NewNative(), nil
	case NameFPDF:
		return NewFPDF()
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
