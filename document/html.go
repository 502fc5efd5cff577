package document

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML builds a Document from an HTML summary: the first h1 (or the
// head's title) is the document title, h2-h6 open sections, li and p
// elements become points. A table row becomes one point, and any other run
// of inline content (text loose in a div, td or body) is a point too.
func FromHTML(source []byte) (Document, error) {
	root, err := html.Parse(bytes.NewReader(source))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}
	c := &collector{}
	var pageTitle string
	c.walkHTML(root, &pageTitle)
	if c.doc.Title == "" {
		c.doc.Title = pageTitle
	}
	return c.doc, nil
}

func (c *collector) walkHTML(n *html.Node, pageTitle *string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Title:
			if *pageTitle == "" {
				*pageTitle = htmlText(n)
			}
			return
		case atom.H1:
			c.heading(1, htmlText(n))
			return
		case atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			c.heading(2, htmlText(n))
			return
		case atom.P:
			text := htmlText(n)
			if c.metadata(htmlLines(n)) {
				return
			}
			c.point(text)
			return
		case atom.Li:
			c.point(htmlText(n))
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == html.ElementNode && (child.DataAtom == atom.Ul || child.DataAtom == atom.Ol) {
					c.walkHTML(child, pageTitle)
				}
			}
			return
		case atom.Tr:
			if text := htmlRow(n); text != "" {
				c.point(text)
			}
			return
		}
	}

	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		lines := htmlLines(run...)
		if !c.metadata(lines) {
			if text := htmlText(run...); text != "" {
				c.point(text)
			}
		}
		run = run[:0]
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if htmlInline(child) {
			run = append(run, child)
			continue
		}
		flush()
		c.walkHTML(child, pageTitle)
	}
	flush()
}

var inlineAtoms = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Br: true, atom.Cite: true, atom.Code: true, atom.Data: true, atom.Dfn: true,
	atom.Em: true, atom.Font: true, atom.I: true, atom.Kbd: true, atom.Label: true,
	atom.Mark: true, atom.Q: true, atom.S: true, atom.Samp: true, atom.Small: true,
	atom.Span: true, atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.Time: true,
	atom.U: true, atom.Var: true, atom.Wbr: true,
}

func htmlInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return inlineAtoms[n.DataAtom]
	}
	return false
}

// htmlRow joins the cell texts of a table row.
func htmlRow(tr *html.Node) string {
	var cells []string
	for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
			continue
		}
		if text := htmlText(cell); text != "" {
			cells = append(cells, text)
		}
	}
	return strings.Join(cells, " ")
}

// htmlFragmentText returns the text of an HTML snippet with tags removed.
func htmlFragmentText(raw []byte) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(raw), body)
	if err != nil {
		return ""
	}
	return htmlText(nodes...)
}

// htmlText returns the whitespace-collapsed text under nodes, excluding
// nested lists.
func htmlText(nodes ...*html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
				continue
			}
			f(c)
		}
	}
	for _, n := range nodes {
		f(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// htmlLines splits the text under nodes on <br> and newlines.
func htmlLines(nodes ...*html.Node) []string {
	var lines []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}
	var f func(*html.Node)
	f = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts := strings.Split(n.Data, "\n")
			for i, part := range parts {
				if i > 0 {
					flush()
				}
				cur.WriteString(part)
			}
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	for _, n := range nodes {
		f(n)
	}
	flush()
	return lines
}
