// Package writer serializes a builder.Document into PDF bytes: catalog, page
// tree, Standard-14 font dictionaries, one content stream per page, an
// information dictionary, a classic xref table and the trailer.
package writer

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/careinsight/recordpdf/builder"
)

// Version is the PDF header version written to every file.
const Version = "1.7"

// Config controls serialization.
type Config struct {
	// Compress FlateDecodes content streams.
	Compress bool
	// Deterministic derives the file identifier from the content instead of
	// drawing a random one, so equal input gives byte-identical output.
	Deterministic bool
}

// ErrEmptyDocument is returned for a nil document or one with no pages.
var ErrEmptyDocument = errors.New("document has no pages")

// Write serializes doc to out.
func Write(doc *builder.Document, out io.Writer, cfg Config) error {
	if doc == nil || len(doc.Pages) == 0 {
		return ErrEmptyDocument
	}
	objects := make(map[int]Object)
	objNum := 1
	next := func() int {
		n := objNum
		objNum++
		return n
	}
	catalogRef := next()
	pagesRef := next()

	// Fonts, one object per registered resource that some page uses.
	fontNames := usedFonts(doc)
	fontRefs := make(map[string]int, len(fontNames))
	for _, res := range fontNames {
		base, ok := doc.Fonts[res]
		if !ok {
			return fmt.Errorf("font resource %q has no base font", res)
		}
		n := next()
		fontRefs[res] = n
		objects[n] = dict().
			set("Type", name("Font")).
			set("Subtype", name("Type1")).
			set("BaseFont", name(base)).
			set("Encoding", name("WinAnsiEncoding"))
	}

	// Pages with their content streams.
	contents := make([][]byte, len(doc.Pages))
	kids := array()
	for i, p := range doc.Pages {
		data := serializeContentStream(p.Operations)
		contents[i] = data
		streamDict := dict()
		if cfg.Compress {
			packed, err := flateEncode(data)
			if err != nil {
				return fmt.Errorf("compress page %d: %w", i+1, err)
			}
			data = packed
			streamDict.set("Filter", name("FlateDecode"))
		}
		contentRef := next()
		objects[contentRef] = stream(streamDict, data)

		fontRes := dict()
		for _, res := range p.Fonts {
			fontRes.set(res, ref(fontRefs[res]))
		}
		resources := dict().set("ProcSet", array(name("PDF"), name("Text")))
		if len(p.Fonts) > 0 {
			resources.set("Font", fontRes)
		}
		pageRef := next()
		objects[pageRef] = dict().
			set("Type", name("Page")).
			set("Parent", ref(pagesRef)).
			set("MediaBox", array(integer(0), integer(0), number(p.Width), number(p.Height))).
			set("Resources", resources).
			set("Contents", ref(contentRef))
		kids.items = append(kids.items, ref(pageRef))
	}
	objects[pagesRef] = dict().
		set("Type", name("Pages")).
		set("Count", integer(int64(len(doc.Pages)))).
		set("Kids", kids)
	objects[catalogRef] = dict().
		set("Type", name("Catalog")).
		set("Pages", ref(pagesRef))

	infoRef := 0
	if doc.Info != nil {
		infoRef = next()
		objects[infoRef] = infoDict(doc.Info)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", Version)
	offsets := make([]int, objNum)
	for n := 1; n < objNum; n++ {
		offsets[n] = buf.Len()
		buf.Write(serializeObject(n, objects[n]))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", objNum)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < objNum; n++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
	}

	id := fileID(doc, contents, cfg)
	trailer := dict().
		set("Size", integer(int64(objNum))).
		set("Root", ref(catalogRef)).
		set("ID", array(hexString(id[0]), hexString(id[1])))
	if infoRef != 0 {
		trailer.set("Info", ref(infoRef))
	}
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(trailer))
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(buf.Bytes())
	return err
}

func usedFonts(doc *builder.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range doc.Pages {
		for _, f := range p.Fonts {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out
}

func infoDict(info *builder.Info) *dictObj {
	d := dict()
	for key, v := range map[string]string{
		"Title":    info.Title,
		"Subject":  info.Subject,
		"Author":   info.Author,
		"Creator":  info.Creator,
		"Producer": info.Producer,
	} {
		if v != "" {
			d.set(key, textString(v))
		}
	}
	if !info.CreationDate.IsZero() {
		d.set("CreationDate", literal([]byte(pdfDate(info))))
	}
	return d
}

func pdfDate(info *builder.Info) string {
	return "D:" + info.CreationDate.UTC().Format("20060102150405") + "Z"
}

// fileID returns the two /ID entries. In deterministic mode both come from a
// name-based UUID over the version, info and uncompressed page content.
func fileID(doc *builder.Document, contents [][]byte, cfg Config) [2][]byte {
	if !cfg.Deterministic {
		id := uuid.New()
		return [2][]byte{id[:], id[:]}
	}
	var seed bytes.Buffer
	seed.WriteString(Version)
	if info := doc.Info; info != nil {
		for _, v := range []string{info.Title, info.Subject, info.Author, info.Creator, info.Producer} {
			seed.WriteString(v)
			seed.WriteByte(0)
		}
		if !info.CreationDate.IsZero() {
			seed.WriteString(pdfDate(info))
		}
	}
	for i, p := range doc.Pages {
		fmt.Fprintf(&seed, "%s %s\n", formatNumber(p.Width), formatNumber(p.Height))
		seed.Write(contents[i])
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, seed.Bytes())
	return [2][]byte{id[:], id[:]}
}

func serializeContentStream(ops []builder.Operation) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		for i, operand := range op.Operands {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(serializeOperand(operand))
		}
		if len(op.Operands) > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func serializeOperand(op builder.Operand) []byte {
	switch v := op.(type) {
	case builder.Number:
		return []byte(formatNumber(float64(v)))
	case builder.Name:
		return []byte("/" + pdfNameLiteral(string(v)))
	case builder.String:
		return escapeLiteralString(v)
	default:
		return []byte("null")
	}
}

func flateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
