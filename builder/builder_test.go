package builder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func operators(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Operator
	}
	return out
}

func TestBuilder_DrawTextOps(t *testing.T) {
	b := NewBuilder()
	b.NewPage(200, 200).
		DrawText("Hello", 10, 20, TextOptions{Font: FontBold, FontSize: 16, Color: Color{R: 0.1, G: 0.2, B: 0.3}})
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build doc: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(doc.Pages))
	}
	page := doc.Pages[0]
	if diff := cmp.Diff([]string{"BT", "Tf", "Tm", "rg", "Tj", "ET"}, operators(page.Operations)); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}
	if got := page.Operations[1].Operands; got[0] != Name("F2") || got[1] != Number(16) {
		t.Fatalf("Tf operands = %v", got)
	}
	if tm := page.Operations[2].Operands; tm[4] != Number(10) || tm[5] != Number(20) {
		t.Fatalf("Tm coordinates not set: %v", tm)
	}
	if tj := page.Operations[4].Operands[0].(String); string(tj) != "Hello" {
		t.Fatalf("Tj text mismatch: %q", tj)
	}
	if diff := cmp.Diff([]string{"F2"}, page.Fonts); diff != "" {
		t.Fatalf("page fonts (-want +got):\n%s", diff)
	}
	if doc.Fonts["F1"] != "Helvetica" || doc.Fonts["F2"] != "Helvetica-Bold" {
		t.Fatalf("unexpected font table %v", doc.Fonts)
	}
}

func TestBuilder_UnknownFont(t *testing.T) {
	b := NewBuilder()
	b.NewPage(100, 100).DrawText("x", 0, 0, TextOptions{Font: "F9"})
	if _, err := b.Build(); err == nil {
		t.Fatalf("expected error for unregistered font")
	}
}

func TestBuilder_Shapes(t *testing.T) {
	b := NewBuilder()
	b.NewPage(100, 100).
		DrawRectangle(10, 20, 30, 40, RectOptions{Fill: true, FillColor: Color{R: 1}}).
		DrawLine(0, 0, 5, 5, LineOptions{StrokeColor: Color{G: 1}, LineWidth: 1.5}).
		DrawCircle(50, 50, 4, PathOptions{Fill: true, Stroke: true})
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build doc: %v", err)
	}
	want := []string{
		"q", "rg", "re", "f", "Q",
		"q", "RG", "w", "m", "l", "S", "Q",
		"q", "rg", "RG", "m", "c", "c", "c", "c", "h", "B", "Q",
	}
	if diff := cmp.Diff(want, operators(doc.Pages[0].Operations)); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}
	// The circle path starts and ends at (cx+r, cy).
	ops := doc.Pages[0].Operations
	start := ops[15].Operands
	end := ops[19].Operands
	if start[0] != Number(54) || start[1] != Number(50) || end[4] != Number(54) || end[5] != Number(50) {
		t.Fatalf("circle not closed at its start point: %v / %v", start, end)
	}
}

func TestBuilder_RectangleDefaultsToStroke(t *testing.T) {
	b := NewBuilder()
	b.NewPage(10, 10).DrawRectangle(0, 0, 1, 1, RectOptions{})
	doc, _ := b.Build()
	if got := operators(doc.Pages[0].Operations); got[len(got)-2] != "S" {
		t.Fatalf("expected stroke paint, got %v", got)
	}
}

func TestBuilder_PageReopen(t *testing.T) {
	b := NewBuilder()
	b.NewPage(100, 100)
	b.NewPage(100, 100)
	if b.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", b.PageCount())
	}
	first, err := b.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	first.DrawLine(0, 0, 1, 1, LineOptions{})
	if _, err := b.Page(3); err == nil {
		t.Fatalf("Page(3) should be out of range")
	}
	if _, err := b.Page(0); err == nil {
		t.Fatalf("Page(0) should be out of range")
	}
	doc, _ := b.Build()
	if len(doc.Pages[0].Operations) == 0 || len(doc.Pages[1].Operations) != 0 {
		t.Fatalf("reopened page did not receive the drawing")
	}
}

func TestBuilder_NoPages(t *testing.T) {
	if _, err := NewBuilder().Build(); !errors.Is(err, ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}

func TestEncodeWinAnsi(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"abc", []byte("abc")},
		{"café", []byte{'c', 'a', 'f', 0xE9}},
		{"a•b", []byte{'a', 0x95, 'b'}},
		{"“q”", []byte{0x93, 'q', 0x94}},
		{"€", []byte{0x80}},
		{"日本", []byte("??")},
		{"≥ 5", []byte("? 5")},
		{"a\u0081b", []byte("a?b")},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, EncodeWinAnsi(tt.in)); diff != "" {
			t.Errorf("EncodeWinAnsi(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestCountUnencodable(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"Café – 5 €", 0},
		{"HbA1c ≥ 6.5%", 1},
		{"μg → mg ≤ 2", 3},
		{"日本", 2},
		{"tab\there\u0081", 2},
	}
	for _, tt := range tests {
		if got := CountUnencodable(tt.in); got != tt.want {
			t.Errorf("CountUnencodable(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
