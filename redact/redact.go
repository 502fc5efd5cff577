// Package redact removes personal identifiers from summary text before it is
// laid out. Each Rule replaces its matches with a "[LABEL-REDACTED]" token.
// Rules run in order and each sees the output of the ones before it.
package redact

import (
	"regexp"
	"sort"

	"github.com/careinsight/recordpdf/document"
)

// Rule is one labeled pattern.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// NewRule compiles expr into a Rule.
func NewRule(label, expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Label: label, Pattern: re}, nil
}

// MustRule is NewRule for expressions known at compile time.
func MustRule(label, expr string) Rule {
	r, err := NewRule(label, expr)
	if err != nil {
		panic("redact: " + label + ": " + err.Error())
	}
	return r
}

// Token returns the replacement text for label.
func Token(label string) string {
	return "[" + label + "-REDACTED]"
}

// Report counts replacements per label.
type Report struct {
	Counts map[string]int
	// Subject is set when the document's subject identifier was rewritten.
	Subject bool
}

// Total returns the number of replacements across all labels.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Labels returns the labels that matched, sorted.
func (r Report) Labels() []string {
	out := make([]string, 0, len(r.Counts))
	for l := range r.Counts {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (r *Report) add(label string, n int) {
	if n == 0 {
		return
	}
	if r.Counts == nil {
		r.Counts = make(map[string]int)
	}
	r.Counts[label] += n
}

// Redactor applies an ordered rule list. It is immutable and safe for
// concurrent use.
type Redactor struct {
	rules []Rule
}

// New returns a Redactor applying rules in the given order.
func New(rules ...Rule) *Redactor {
	return &Redactor{rules: append([]Rule(nil), rules...)}
}

// Default returns a Redactor with the built-in rules.
func Default() *Redactor {
	return defaultRedactor
}

// With returns a Redactor that applies rules after r's own.
func (r *Redactor) With(rules ...Rule) *Redactor {
	all := make([]Rule, 0, len(r.rules)+len(rules))
	return &Redactor{rules: append(append(all, r.rules...), rules...)}
}

// String redacts s and reports what it replaced.
func (r *Redactor) String(s string) (string, Report) {
	var rep Report
	return r.apply(s, &rep), rep
}

func (r *Redactor) apply(s string, rep *Report) string {
	for _, rule := range r.rules {
		n := 0
		token := Token(rule.Label)
		s = rule.Pattern.ReplaceAllStringFunc(s, func(string) string {
			n++
			return token
		})
		rep.add(rule.Label, n)
	}
	return s
}

// Document returns a redacted copy of d. Title, subject identifier, headings
// and points are rewritten; GeneratedAt is the render timestamp and is left
// alone.
func (r *Redactor) Document(d document.Document) (document.Document, Report) {
	var rep Report
	out := document.Document{
		Title:       r.apply(d.Title, &rep),
		GeneratedAt: d.GeneratedAt,
	}
	before := rep.Total()
	out.SubjectID = r.apply(d.SubjectID, &rep)
	rep.Subject = rep.Total() > before

	if len(d.Sections) > 0 {
		out.Sections = make([]document.Section, len(d.Sections))
		for i, s := range d.Sections {
			ns := document.Section{Heading: r.apply(s.Heading, &rep)}
			if len(s.Points) > 0 {
				ns.Points = make([]string, len(s.Points))
				for j, p := range s.Points {
					ns.Points[j] = r.apply(p, &rep)
				}
			}
			out.Sections[i] = ns
		}
	}
	return out, rep
}

// Labels used by the default rules.
const (
	LabelEmail    = "EMAIL"
	LabelName     = "NAME"
	LabelDoctor   = "DOCTOR"
	LabelAddress  = "ADDRESS"
	LabelAge      = "AGE"
	LabelGender   = "GENDER"
	LabelID       = "ID"
	LabelAadhaar  = "AADHAAR"
	LabelPhone    = "PHONE"
	LabelPincode  = "PINCODE"
	LabelDate     = "DATE"
	LabelLocation = "LOCATION"
	LabelRelation = "RELATION"
	LabelPhysical = "PHYSICAL-DATA"
)

// labeled matches "Label: value" and the doubled form "Label Label : : value"
// that form exports produce.
func labeled(label, value string) string {
	return `(?i)\b(?:` + label + `)[^:\n]*?:(?:[ \t]*:)?[ \t]*` + value
}

const months = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var defaultRedactor = New(
	MustRule(LabelEmail, `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),

	MustRule(LabelName, labeled(`patient\s*name|beneficiary\s*name|customer\s*name|worker\s*name|full\s*name`, `[^,;\n]+`)),
	MustRule(LabelDoctor, `\bDr\.?[ \t]+(?:Dr\.?[ \t]+)?[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2}`),
	MustRule(LabelAddress, labeled(`address`, `[^;\n]+`)),
	MustRule(LabelRelation, labeled(`relation\s*with`, `[^,;\n]+`)),

	MustRule(LabelAge, labeled(`age`, `\d{1,3}\b`)),
	MustRule(LabelAge, `\b\d{1,3}Y/(?:MALE|FEMALE|M|F)\b`),
	MustRule(LabelGender, labeled(`gender|sex`, `(?:male|female|other)\b`)),

	MustRule(LabelID, labeled(`registration\s*(?:number|no\.?)|patient\s*id|mrn`, `[A-Z0-9][A-Z0-9-]{3,}`)),

	// Phone numbers with a country code first: +919876543210 is also twelve
	// digits and must not read as an Aadhaar number.
	MustRule(LabelPhone, `\+\d{1,3}[-\s]?\d{10}\b`),
	MustRule(LabelAadhaar, `\b\d{4}[\s-]\d{4}[\s-]\d{4}\b`),
	MustRule(LabelAadhaar, `\b\d{12}\b`),
	MustRule(LabelPhone, labeled(`contact|phone|mobile|tel`, `\+?\d[\d\s-]{8,16}\d`)),
	MustRule(LabelPhone, `\b[6-9]\d{9}\b`),
	MustRule(LabelPhone, `\(?\b0\d{2,4}\)?[-\s]\d{6,8}\b`),
	MustRule(LabelPincode, labeled(`pin\s*code|postal\s*code|zip`, `\d{5,6}\b`)),

	MustRule(LabelDate, `\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
	MustRule(LabelDate, `\b\d{4}[/.-]\d{1,2}[/.-]\d{1,2}\b`),
	MustRule(LabelDate, `(?i)\b\d{1,2}[ \t]+`+months+`[ \t]+\d{4}\b`),
	MustRule(LabelDate, `(?i)\b`+months+`[ \t]+\d{1,2},?[ \t]+\d{4}\b`),

	MustRule(LabelLocation, labeled(`district|taluka|village|city`, `[^,;\n]+`)),
	MustRule(LabelPhysical, labeled(`height|weight`, `\d+(?:\.\d+)?(?:[ \t]*(?:cm|kg|m))?\b`)),
)
