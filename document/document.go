// Package document holds the structured summary a renderer consumes: a
// title, optional subject metadata and ordered sections of bullet points.
//
// Documents are built by the caller (from demo data or one of the Decode
// formats), handed to the renderer once and never mutated by it.
package document

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Document is the content to lay out.
type Document struct {
	Title       string    `json:"title" yaml:"title"`
	SubjectID   string    `json:"subjectId,omitempty" yaml:"subjectId,omitempty"`
	GeneratedAt string    `json:"generatedDate,omitempty" yaml:"generatedDate,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section is a labeled group of bullet points.
type Section struct {
	Heading string   `json:"heading" yaml:"heading"`
	Points  []string `json:"points" yaml:"points"`
}

// Normalize returns a deep copy with every string NFC-normalized and trimmed.
// Empty points are kept.
func (d Document) Normalize() Document {
	out := Document{
		Title:       clean(d.Title),
		SubjectID:   clean(d.SubjectID),
		GeneratedAt: clean(d.GeneratedAt),
	}
	if len(d.Sections) > 0 {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			ns := Section{Heading: clean(s.Heading)}
			if len(s.Points) > 0 {
				ns.Points = make([]string, len(s.Points))
				for j, p := range s.Points {
					ns.Points[j] = clean(p)
				}
			}
			out.Sections[i] = ns
		}
	}
	return out
}

// PointCount returns the number of points across all sections.
func (d Document) PointCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Points)
	}
	return n
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Demo returns the sample summary offered on the export page.
func Demo() Document {
	return Document{
		Title:     "Health Record Summary",
		SubjectID: "PATIENT-001",
		Sections: []Section{
			{
				Heading: "Key Findings",
				Points: []string{
					"Blood glucose levels were elevated over 3 consecutive fasting readings, indicating potential diabetes management needs.",
					"Current medication includes Metformin 500mg taken daily for blood sugar control.",
					"No known allergies documented in the record.",
				},
			},
			{
				Heading: "Current Treatment",
				Points: []string{
					"Patient is on Metformin 500mg daily regimen.",
					"Regular monitoring of blood glucose levels is ongoing.",
					"No adverse reactions reported with current medication.",
				},
			},
			{
				Heading: "Follow-up Plan",
				Points: []string{
					"Follow-up appointment recommended to assess treatment effectiveness.",
					"Continue current medication dosage.",
					"Monitor for any side effects or complications.",
				},
			},
		},
	}
}
