package writer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Object is a PDF object that can be serialized into a body.
type Object interface{ object() }

type nameObj string

type numberObj struct {
	i     int64
	f     float64
	isInt bool
}

type stringObj struct {
	b   []byte
	hex bool
}

type arrayObj struct{ items []Object }

type dictObj struct{ kv map[string]Object }

type streamObj struct {
	dict *dictObj
	data []byte
}

type refObj struct{ num int }

func (nameObj) object()    {}
func (numberObj) object()  {}
func (stringObj) object()  {}
func (*arrayObj) object()  {}
func (*dictObj) object()   {}
func (*streamObj) object() {}
func (refObj) object()     {}

func name(v string) nameObj           { return nameObj(v) }
func integer(i int64) numberObj       { return numberObj{i: i, isInt: true} }
func number(f float64) numberObj      { return numberObj{f: f} }
func literal(b []byte) stringObj      { return stringObj{b: b} }
func hexString(b []byte) stringObj    { return stringObj{b: b, hex: true} }
func array(items ...Object) *arrayObj { return &arrayObj{items: items} }
func dict() *dictObj                  { return &dictObj{kv: make(map[string]Object)} }
func ref(num int) refObj              { return refObj{num: num} }

func stream(d *dictObj, data []byte) *streamObj {
	d.set("Length", integer(int64(len(data))))
	return &streamObj{dict: d, data: data}
}

func (d *dictObj) set(key string, v Object) *dictObj {
	d.kv[key] = v
	return d
}

// textString encodes an info dictionary value: a literal for plain ASCII,
// UTF-16BE with a byte order mark otherwise.
func textString(s string) stringObj {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			ascii = false
			break
		}
	}
	if ascii {
		return literal([]byte(s))
	}
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2, 2+2*len(units))
	b[0], b[1] = 0xFE, 0xFF
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return hexString(b)
}

// serializeObject writes one indirect object.
func serializeObject(num int, obj Object) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d 0 obj\n", num)
	buf.Write(serializePrimitive(obj))
	buf.WriteString("\nendobj\n")
	return buf.Bytes()
}

func serializePrimitive(o Object) []byte {
	switch v := o.(type) {
	case nameObj:
		return []byte("/" + pdfNameLiteral(string(v)))
	case numberObj:
		if v.isInt {
			return []byte(strconv.FormatInt(v.i, 10))
		}
		return []byte(formatNumber(v.f))
	case stringObj:
		if v.hex {
			dst := make([]byte, hex.EncodedLen(len(v.b)))
			hex.Encode(dst, v.b)
			return []byte("<" + strings.ToUpper(string(dst)) + ">")
		}
		return escapeLiteralString(v.b)
	case *arrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *dictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.kv))
		for k := range v.kv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + pdfNameLiteral(k) + " ")
			b.Write(serializePrimitive(v.kv[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *streamObj:
		var b bytes.Buffer
		b.Write(serializePrimitive(v.dict))
		b.WriteString("\nstream\n")
		b.Write(v.data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case refObj:
		return []byte(fmt.Sprintf("%d 0 R", v.num))
	default:
		return []byte("null")
	}
}

// formatNumber prints a real with at most four decimals and never in
// exponent form, which PDF does not allow.
func formatNumber(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func pdfNameLiteral(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' || ch == '.' {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "#%02X", ch)
	}
	return b.String()
}

func escapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}
