package backend

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/careinsight/recordpdf/document"
	"github.com/careinsight/recordpdf/layout"
)

var (
	_ Backend = (*Native)(nil)
	_ Backend = (*FPDF)(nil)
)

var fixedTime = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func render(t *testing.T, be Backend, doc document.Document) layout.Result {
	t.Helper()
	cfg := layout.NewConfig(layout.WithFonts(be.Fonts()))
	res, err := layout.Render(doc, cfg, be)
	if err != nil {
		t.Fatalf("render with %s: %v", be.Name(), err)
	}
	return res
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", NameNative, NameFPDF} {
		be, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if name != "" && be.Name() != name {
			t.Fatalf("New(%q) returned %s", name, be.Name())
		}
	}
	if _, err := New("chromium"); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestNative_Demo(t *testing.T) {
	be := NewNative()
	res := render(t, be, document.Demo())
	if res.Pages != 1 {
		t.Fatalf("Expected 1 page, got %d", res.Pages)
	}
	out, err := be.Bytes(Meta{Title: "Health Record Summary", CreatedAt: fixedTime})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	s := string(out)
	for _, want := range []string{"%PDF-1.7", "/Count 1", "(Page 1 of 1) Tj", "(Key Findings) Tj", "/Title (Health Record Summary)"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNative_FlipsCoordinates(t *testing.T) {
	be := NewNative()
	if err := be.EmitText(layout.Text{Value: "x"}); !errors.Is(err, layout.ErrNoPage) {
		t.Fatalf("Expected ErrNoPage, got %v", err)
	}
	_ = be.NewPage(100, 200)
	_ = be.EmitText(layout.Text{X: 10, Y: 50, Value: "hi", Size: 12})
	_ = be.EmitShape(layout.Shape{Kind: layout.ShapeRect, X: 0, Y: 0, W: 100, H: 40, Fill: true})
	_ = be.EmitShape(layout.Shape{Kind: layout.ShapeLine, X: 0, Y: 150, X2: 100, Y2: 150, Stroke: true})
	out, err := be.Bytes(Meta{})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	for _, want := range []string{"1 0 0 1 10 150 Tm", "0 160 100 40 re", "0 50 m", "100 50 l"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNative_SetPage(t *testing.T) {
	be := NewNative()
	if err := be.SetPage(1); err == nil {
		t.Fatalf("SetPage before any page should fail")
	}
	_ = be.NewPage(100, 100)
	_ = be.NewPage(100, 300)
	if err := be.SetPage(1); err != nil {
		t.Fatalf("SetPage(1): %v", err)
	}
	// Page 1 is 100pt tall, so y flips against 100, not 300.
	_ = be.EmitText(layout.Text{X: 1, Y: 10, Value: "p1", Size: 8})
	out, _ := be.Bytes(Meta{})
	if !bytes.Contains(out, []byte("1 0 0 1 1 90 Tm")) {
		t.Fatalf("text on re-opened page used the wrong height")
	}
}

func TestNative_ReplayMatchesDirect(t *testing.T) {
	doc := document.Demo()
	direct := NewNative()
	render(t, direct, doc)

	rec := &layout.Recorder{}
	if _, err := layout.Render(doc, layout.NewConfig(layout.WithFonts(direct.Fonts())), rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	replayed := NewNative()
	if err := rec.Replay(replayed); err != nil {
		t.Fatalf("replay: %v", err)
	}

	meta := Meta{Title: "t", CreatedAt: fixedTime, Compress: true}
	a, err := direct.Bytes(meta)
	if err != nil {
		t.Fatalf("direct bytes: %v", err)
	}
	b, err := replayed.Bytes(meta)
	if err != nil {
		t.Fatalf("replayed bytes: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("replayed document differs from direct render")
	}
}

func TestFPDF_Demo(t *testing.T) {
	be, err := NewFPDF()
	if err != nil {
		t.Fatalf("NewFPDF: %v", err)
	}
	if err := be.EmitText(layout.Text{Value: "x"}); !errors.Is(err, layout.ErrNoPage) {
		t.Fatalf("Expected ErrNoPage, got %v", err)
	}
	doc := document.Demo()
	doc.Sections[0].Points = append(doc.Sections[0].Points, "Ünïcödé text → rendered with Go fonts")
	res := render(t, be, doc)
	if res.Pages != 1 {
		t.Fatalf("Expected 1 page, got %d", res.Pages)
	}
	out, err := be.Bytes(Meta{Title: "Health Record Summary", CreatedAt: fixedTime})
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	if !bytes.Contains(out, []byte("/Count 1")) {
		t.Fatalf("expected a single page tree entry")
	}
}

func TestFPDF_SetPage(t *testing.T) {
	be, err := NewFPDF()
	if err != nil {
		t.Fatalf("NewFPDF: %v", err)
	}
	if err := be.SetPage(1); err == nil {
		t.Fatalf("SetPage before any page should fail")
	}
	_ = be.NewPage(200, 200)
	_ = be.NewPage(200, 200)
	if err := be.SetPage(2); err != nil {
		t.Fatalf("SetPage(2): %v", err)
	}
	if err := be.SetPage(3); err == nil {
		t.Fatalf("SetPage(3) should be out of range")
	}
}

func TestSubstituted(t *testing.T) {
	native := NewNative()
	_ = native.NewPage(200, 200)
	_ = native.EmitText(layout.Text{Value: "HbA1c ≥ 6.5% in μg", Size: 10})
	_ = native.EmitText(layout.Text{Value: "Café €5", Size: 10, Style: layout.Bold})
	if got := native.Substituted(); got != 2 {
		t.Fatalf("native Substituted() = %d, want 2", got)
	}

	fp, err := NewFPDF()
	if err != nil {
		t.Fatalf("NewFPDF: %v", err)
	}
	_ = fp.NewPage(200, 200)
	_ = fp.EmitText(layout.Text{Value: "HbA1c 6.5% Café", Size: 10})
	_ = fp.EmitText(layout.Text{Value: "日本", Size: 10, Style: layout.Bold})
	if got := fp.Substituted(); got != 2 {
		t.Fatalf("fpdf Substituted() = %d, want 2", got)
	}
}

func TestRGB(t *testing.T) {
	r, g, b := rgb(layout.RGB(59, 130, 246))
	if r != 59 || g != 130 || b != 246 {
		t.Fatalf("rgb round trip = %d,%d,%d", r, g, b)
	}
	if r, _, _ := rgb(layout.Color{R: 2}); r != 255 {
		t.Fatalf("components should clamp, got %d", r)
	}
}
