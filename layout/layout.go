// Package layout turns a document.Document into fixed-size pages.
//
// Rendering is two explicit phases over a Sink. The content pass emits the
// banner, title, metadata and sections, breaking pages whenever the next
// line box would cross the content bottom. The footer pass runs once the
// page count N is known and re-opens every page to stamp the footer note and
// "Page i of N". A render is synchronous and keeps all state in its own
// cursor, so concurrent renders never share anything.
package layout

import (
	"fmt"

	"github.com/careinsight/recordpdf/document"
)

// Result summarizes a completed render.
type Result struct {
	Pages     int
	Lines     int // content text lines, excluding header and footer chrome
	Overflows int // lines wider than their column (single unbreakable words)
}

type renderer struct {
	cfg   Config
	sink  Sink
	cur   Cursor
	title string
	res   Result
}

// Render lays doc out into sink. The only error it produces itself is an
// invalid cfg; any sink error aborts the render and is returned wrapped.
func Render(doc document.Document, cfg Config, sink Sink) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	r := &renderer{cfg: cfg, sink: sink, cur: NewCursor(cfg), title: doc.Title}

	if err := r.header(); err != nil {
		return Result{}, fmt.Errorf("render header: %w", err)
	}
	if err := r.titleBlock(doc); err != nil {
		return Result{}, fmt.Errorf("render title: %w", err)
	}
	for i, s := range doc.Sections {
		if err := r.section(s); err != nil {
			return Result{}, fmt.Errorf("render section %d: %w", i+1, err)
		}
	}
	if err := r.footers(); err != nil {
		return Result{}, fmt.Errorf("render footers: %w", err)
	}
	r.res.Pages = r.cur.Page
	return r.res, nil
}

func (r *renderer) header() error {
	c := r.cfg
	if err := r.openPage(); err != nil {
		return err
	}
	if c.HeaderHeight > 0 {
		if err := r.sink.EmitShape(Shape{
			Kind: ShapeRect, W: c.PageWidth, H: c.HeaderHeight,
			Fill: true, FillColor: c.HeaderColor,
		}); err != nil {
			return err
		}
		if err := r.sink.EmitShape(Shape{
			Kind: ShapeCircle, X: c.Margins.Left, Y: c.HeaderHeight / 2,
			R:    min(MM(8), c.HeaderHeight/2.5),
			Fill: true, FillColor: c.AccentColor,
		}); err != nil {
			return err
		}
		x := c.Margins.Left + MM(12)
		if c.Brand != "" {
			if err := r.sink.EmitText(Text{
				X: x, Y: c.HeaderHeight * 0.55, Value: c.Brand,
				Style: Bold, Size: c.BrandSize, Color: c.BrandColor,
			}); err != nil {
				return err
			}
		}
		if c.Tagline != "" {
			if err := r.sink.EmitText(Text{
				X: x, Y: c.HeaderHeight * 0.7, Value: c.Tagline,
				Style: Regular, Size: c.MetaSize, Color: c.BrandColor,
			}); err != nil {
				return err
			}
		}
	}
	r.cur.Y = min(max(c.Margins.Top, c.HeaderHeight+c.HeaderGap), r.cur.Bottom)
	return nil
}

func (r *renderer) titleBlock(doc document.Document) error {
	c := r.cfg
	if doc.Title != "" {
		if err := r.paragraph(doc.Title, Bold, c.TitleSize, c.TitleColor, c.Margins.Left, c.ContentWidth()); err != nil {
			return err
		}
		r.cur.Advance(c.TitleGap)
	}

	var meta []string
	if doc.SubjectID != "" {
		meta = append(meta, c.SubjectLabel+": "+doc.SubjectID)
	}
	if doc.GeneratedAt != "" {
		meta = append(meta, c.GeneratedLabel+": "+doc.GeneratedAt)
	}
	for _, line := range meta {
		if err := r.paragraph(line, Regular, c.MetaSize, c.MetaColor, c.Margins.Left, c.ContentWidth()); err != nil {
			return err
		}
	}
	if len(meta) > 0 {
		r.cur.Advance(c.MetaGap)
	}

	if err := r.ensure(1); err != nil {
		return err
	}
	if err := r.sink.EmitShape(Shape{
		Kind: ShapeLine,
		X:    c.Margins.Left, Y: r.cur.Y,
		X2: c.PageWidth - c.Margins.Right, Y2: r.cur.Y,
		Stroke: true, StrokeColor: c.DividerColor, LineWidth: 0.5,
	}); err != nil {
		return err
	}
	r.cur.Advance(c.DividerGap)
	return nil
}

// section places the heading then each point. A heading may end a page
// while its first point starts the next one.
func (r *renderer) section(s document.Section) error {
	c := r.cfg
	if s.Heading != "" {
		if err := r.paragraph(s.Heading, Bold, c.HeadingSize, c.TitleColor, c.Margins.Left, c.ContentWidth()); err != nil {
			return err
		}
		r.cur.Advance(c.HeadingGap)
	}
	for _, p := range s.Points {
		if err := r.point(p); err != nil {
			return err
		}
	}
	r.cur.Advance(c.SectionGap)
	return nil
}

// point places a bullet marker with the first wrapped line, then the rest of
// the lines, each checked for a page break on its own.
func (r *renderer) point(text string) error {
	c := r.cfg
	size := c.BodySize
	lh := c.LineHeight(size)
	x := c.Margins.Left + c.BulletIndent
	width := c.ContentWidth() - c.BulletIndent

	for i, line := range Wrap(text, c.Fonts.Regular, size, width) {
		if err := r.ensure(lh); err != nil {
			return err
		}
		if i == 0 {
			if err := r.sink.EmitShape(Shape{
				Kind: ShapeCircle,
				X:    c.Margins.Left + 2*c.BulletRadius,
				Y:    r.cur.Y + size*0.7,
				R:    c.BulletRadius,
				Fill: true, FillColor: c.BodyColor,
			}); err != nil {
				return err
			}
		}
		if err := r.line(line, Regular, size, c.BodyColor, x, width); err != nil {
			return err
		}
		r.cur.Advance(lh)
	}
	r.cur.Advance(c.PointGap)
	return nil
}

func (r *renderer) paragraph(text string, style Style, size float64, color Color, x, width float64) error {
	lh := r.cfg.LineHeight(size)
	for _, line := range Wrap(text, r.cfg.Fonts.metrics(style), size, width) {
		if err := r.ensure(lh); err != nil {
			return err
		}
		if err := r.line(line, style, size, color, x, width); err != nil {
			return err
		}
		r.cur.Advance(lh)
	}
	return nil
}

// line emits one text line with its baseline one font size below the
// cursor, which keeps descenders inside the line box.
func (r *renderer) line(value string, style Style, size float64, color Color, x, width float64) error {
	if r.cfg.Fonts.metrics(style).Width(value, size) > width {
		r.res.Overflows++
	}
	r.res.Lines++
	return r.sink.EmitText(Text{
		X: x, Y: r.cur.Y + size, Value: value,
		Style: style, Size: size, Color: color,
	})
}

// ensure starts a new page unless a box of height h fits below the cursor.
func (r *renderer) ensure(h float64) error {
	if r.cur.Fits(h) {
		return nil
	}
	return r.openPage()
}

func (r *renderer) openPage() error {
	r.cur.Break()
	if err := r.sink.NewPage(r.cfg.PageWidth, r.cfg.PageHeight); err != nil {
		return fmt.Errorf("new page %d: %w", r.cur.Page, err)
	}
	if r.cur.Page > 1 && r.cfg.RunningHeader {
		return r.runningHeader()
	}
	return nil
}

// runningHeader stamps the brand and title inside the top margin of a
// continuation page.
func (r *renderer) runningHeader() error {
	c := r.cfg
	if c.Brand == "" && r.title == "" {
		return nil
	}
	label := c.Brand
	if r.title != "" {
		full := r.title
		if c.Brand != "" {
			full = c.Brand + " | " + r.title
		}
		if c.Fonts.Regular.Width(full, c.FooterSize) <= c.ContentWidth() {
			label = full
		}
	}
	if label == "" {
		return nil
	}
	return r.sink.EmitText(Text{
		X: c.Margins.Left, Y: c.Margins.Top * 0.6, Value: label,
		Style: Regular, Size: c.FooterSize, Color: c.FooterColor,
	})
}

// footers is the second phase: with the final page count known, every page
// gets the footer rule, note and page marker.
func (r *renderer) footers() error {
	c := r.cfg
	n := r.cur.Page
	lineY := c.PageHeight - c.FooterHeight
	textY := lineY + c.LineHeight(c.FooterSize)
	for i := 1; i <= n; i++ {
		if err := r.sink.SetPage(i); err != nil {
			return err
		}
		if err := r.sink.EmitShape(Shape{
			Kind: ShapeLine,
			X:    c.Margins.Left, Y: lineY,
			X2: c.PageWidth - c.Margins.Right, Y2: lineY,
			Stroke: true, StrokeColor: c.DividerColor, LineWidth: 0.5,
		}); err != nil {
			return err
		}
		if c.FooterNote != "" {
			if err := r.sink.EmitText(Text{
				X: c.Margins.Left, Y: textY, Value: c.FooterNote,
				Style: Regular, Size: c.FooterSize, Color: c.FooterColor,
			}); err != nil {
				return err
			}
		}
		marker := PageMarker(i, n)
		w := c.Fonts.Regular.Width(marker, c.FooterSize)
		if err := r.sink.EmitText(Text{
			X: c.PageWidth - c.Margins.Right - w, Y: textY, Value: marker,
			Style: Regular, Size: c.FooterSize, Color: c.FooterColor,
		}); err != nil {
			return err
		}
	}
	return nil
}

// PageMarker formats the footer page counter.
func PageMarker(i, n int) string {
	return fmt.Sprintf("Page %d of %d", i, n)
}
