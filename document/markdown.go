package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Metadata line prefixes recognised before the first section.
const (
	subjectPrefix   = "Patient ID:"
	generatedPrefix = "Generated:"
)

// FromMarkdown builds a Document from a Markdown summary: the first level-1
// heading is the title, every other heading opens a section, and list items
// and paragraphs become points. Each line of a code block is a point of its
// own. "Patient ID:" and "Generated:" lines ahead of the first section fill
// the metadata.
func FromMarkdown(source []byte) Document {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	c := &collector{}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			c.heading(n.Level, markdownInline(n, source))
		case *ast.List:
			c.markdownList(n, source)
		case *ast.Paragraph:
			if c.metadata(markdownLines(n, source)) {
				continue
			}
			c.point(markdownInline(n, source))
		case *ast.Blockquote:
			c.point(markdownInline(n, source))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			for _, line := range markdownLines(n, source) {
				if line != "" {
					c.point(line)
				}
			}
		case *ast.HTMLBlock:
			if s := markdownHTML(n, source); s != "" {
				c.point(s)
			}
		}
	}
	return c.doc
}

func (c *collector) markdownList(list *ast.List, source []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		c.point(markdownInline(item, source))
		for sub := item.FirstChild(); sub != nil; sub = sub.NextSibling() {
			if nested, ok := sub.(*ast.List); ok {
				c.markdownList(nested, source)
			}
		}
	}
}

// markdownInline flattens the inline text under n, leaving nested lists to
// the caller.
func markdownInline(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.List:
			if node != n {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Paragraph, *ast.TextBlock:
			sb.WriteByte(' ')
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			for _, line := range markdownLines(t, source) {
				sb.WriteByte(' ')
				sb.WriteString(line)
			}
		case *ast.HTMLBlock:
			sb.WriteByte(' ')
			sb.WriteString(markdownHTML(t, source))
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func markdownLines(n ast.Node, source []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimSpace(string(seg.Value(source))))
	}
	return out
}

// markdownHTML returns the text of a raw HTML block with its tags removed.
func markdownHTML(n *ast.HTMLBlock, source []byte) string {
	var raw bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(source))
	}
	return htmlFragmentText(raw.Bytes())
}

// collector accumulates a Document from a block-level walk shared by the
// Markdown and HTML loaders.
type collector struct {
	doc Document
}

func (c *collector) heading(level int, s string) {
	if level == 1 && c.doc.Title == "" {
		c.doc.Title = s
		return
	}
	c.doc.Sections = append(c.doc.Sections, Section{Heading: s})
}

func (c *collector) point(s string) {
	if len(c.doc.Sections) == 0 {
		c.doc.Sections = append(c.doc.Sections, Section{})
	}
	last := &c.doc.Sections[len(c.doc.Sections)-1]
	last.Points = append(last.Points, s)
}

// metadata consumes lines that are all metadata, and only before the first
// section.
func (c *collector) metadata(lines []string) bool {
	if len(c.doc.Sections) > 0 || len(lines) == 0 {
		return false
	}
	var subject, generated string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, subjectPrefix):
			subject = strings.TrimSpace(strings.TrimPrefix(line, subjectPrefix))
		case strings.HasPrefix(line, generatedPrefix):
			generated = strings.TrimSpace(strings.TrimPrefix(line, generatedPrefix))
		default:
			return false
		}
	}
	if subject != "" {
		c.doc.SubjectID = subject
	}
	if generated != "" {
		c.doc.GeneratedAt = generated
	}
	return true
}
