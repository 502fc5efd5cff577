package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/careinsight/recordpdf/layout"
)

const sample = `
[page]
size = "letter"
margin_mm = 15
header_mm = 30
running_header = false

[page.margins]
top = 25

[fonts]
title = 22
body = 10.5

[branding]
product = "Clinic"
tagline = ""
author = "Dr. Rao"

[output]
backend = "fpdf"
category = "Discharge"
fallback = "anon"
compress = false
`

func TestParse_Layout(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, err := f.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if c.PageWidth != 612 || c.PageHeight != 792 {
		t.Errorf("Expected letter size, got %vx%v", c.PageWidth, c.PageHeight)
	}
	if math.Abs(c.Margins.Left-layout.MM(15)) > 1e-9 || math.Abs(c.Margins.Top-layout.MM(25)) > 1e-9 {
		t.Errorf("unexpected margins %+v", c.Margins)
	}
	if c.HeaderHeight != layout.MM(30) || c.RunningHeader {
		t.Errorf("unexpected header settings %v %v", c.HeaderHeight, c.RunningHeader)
	}
	if c.TitleSize != 22 || c.BodySize != 10.5 || c.HeadingSize != layout.DefaultConfig().HeadingSize {
		t.Errorf("unexpected font sizes %v/%v/%v", c.TitleSize, c.HeadingSize, c.BodySize)
	}
	if c.Brand != "Clinic" || c.Tagline != "" || c.FooterNote != layout.DefaultConfig().FooterNote {
		t.Errorf("unexpected branding %q %q %q", c.Brand, c.Tagline, c.FooterNote)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestParse_ExportOptions(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := f.ExportOptions()
	if err != nil {
		t.Fatalf("ExportOptions: %v", err)
	}
	if opts.Backend != "fpdf" || opts.Product != "Clinic" || opts.Category != "Discharge" ||
		opts.Fallback != "anon" || opts.Author != "Dr. Rao" || opts.Compress {
		t.Fatalf("unexpected options %+v", opts)
	}

	empty, _ := Parse(nil)
	opts, err = empty.ExportOptions()
	if err != nil {
		t.Fatalf("ExportOptions: %v", err)
	}
	if !opts.Compress || opts.Layout.PageWidth != layout.A4Width || opts.Redact != nil {
		t.Fatalf("empty file should keep defaults, got %+v", opts)
	}
}

func TestParse_Redact(t *testing.T) {
	f, err := Parse([]byte(`
[redact]
enabled = true

[[redact.rules]]
label = "mrn"
pattern = '\bMRN-\d+\b'
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := f.ExportOptions()
	if err != nil {
		t.Fatalf("ExportOptions: %v", err)
	}
	if opts.Redact == nil {
		t.Fatalf("redaction should be enabled")
	}
	got, _ := opts.Redact.String("MRN-7 reached on 9876543210")
	if got != "[MRN-REDACTED] reached on [PHONE-REDACTED]" {
		t.Fatalf("configured redactor gave %q", got)
	}

	bad := []string{
		"[redact]\nenabled = true\n[[redact.rules]]\nlabel = \"X\"\npattern = \"(\"\n",
		"[redact]\nenabled = true\n[[redact.rules]]\npattern = \"x\"\n",
	}
	for _, src := range bad {
		f, err := Parse([]byte(src))
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		if _, err := f.ExportOptions(); err == nil {
			t.Fatalf("ExportOptions should reject %q", src)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("[page]\nsize = 3")); err == nil {
		t.Fatalf("type mismatch should fail")
	}
	if _, err := Parse([]byte("[page]\nsiez = \"a4\"")); err == nil {
		t.Fatalf("unknown key should fail")
	}
	f, err := Parse([]byte("[page]\nsize = \"tabloid\""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := f.Layout(); !errors.Is(err, ErrUnknownPageSize) {
		t.Fatalf("expected ErrUnknownPageSize, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recordpdf.toml")
	if err := os.WriteFile(path, []byte("[output]\nbackend = \"native\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Output.Backend != "native" {
		t.Fatalf("unexpected backend %q", f.Output.Backend)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
