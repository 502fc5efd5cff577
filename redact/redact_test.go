package redact

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/careinsight/recordpdf/document"
)

func TestDefault_String(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Blood glucose elevated over 3 readings, Metformin 500mg.", "Blood glucose elevated over 3 readings, Metformin 500mg."},
		{"email", "Write to a.b-c@clinic.example.in today", "Write to [EMAIL-REDACTED] today"},
		{"patient name", "Patient Name: MALVI RAJESH SHAH, ward 4", "[NAME-REDACTED], ward 4"},
		{"doubled label", "Beneficiary Name Beneficiary Name : : Sunita Devi", "[NAME-REDACTED]"},
		{"doctor", "Reviewed by Dr. Meera Iyer today", "Reviewed by [DOCTOR-REDACTED] today"},
		{"mobile", "Call 9876543210 after 5", "Call [PHONE-REDACTED] after 5"},
		{"country code", "Mobile +91-9876543210", "Mobile [PHONE-REDACTED]"},
		{"country code joined", "+919876543210", "[PHONE-REDACTED]"},
		{"labeled phone", "Contact No : : 022 2345 6789", "[PHONE-REDACTED]"},
		{"landline", "Clinic (022) 23456789", "Clinic [PHONE-REDACTED]"},
		{"aadhaar spaced", "UID 1234 5678 9012 on file", "UID [AADHAAR-REDACTED] on file"},
		{"aadhaar joined", "UID 123456789012", "UID [AADHAAR-REDACTED]"},
		{"patient id", "Patient ID: MH12AB3456", "[ID-REDACTED]"},
		{"registration", "Registration Number : : REG20240001", "[ID-REDACTED]"},
		{"age label", "Age : 49 years", "[AGE-REDACTED] years"},
		{"age gender code", "Report 49Y/MALE", "Report [AGE-REDACTED]"},
		{"gender", "Gender: Female", "[GENDER-REDACTED]"},
		{"address", "Address: House No. 12, MG Road, Pune 411001", "[ADDRESS-REDACTED]"},
		{"pincode", "Pincode : 411001", "[PINCODE-REDACTED]"},
		{"bare six digits kept", "Platelets 150000 per uL", "Platelets 150000 per uL"},
		{"slash date", "Visit on 12/03/2024", "Visit on [DATE-REDACTED]"},
		{"iso date", "Drawn 2024-03-12", "Drawn [DATE-REDACTED]"},
		{"long date", "Admitted 5 March 2024", "Admitted [DATE-REDACTED]"},
		{"month first date", "since Jan 9, 2023", "since [DATE-REDACTED]"},
		{"district", "District: Nashik, state office", "[LOCATION-REDACTED], state office"},
		{"weight", "Weight (kg): 72.5 kg", "[PHYSICAL-DATA-REDACTED]"},
		{"relation", "Relation with beneficiary: Husband", "[RELATION-REDACTED]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Default().String(tt.in)
			if got != tt.want {
				t.Fatalf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefault_Report(t *testing.T) {
	_, rep := Default().String("Dr. Meera Iyer saw the patient on 12/03/2024 and 14/03/2024; call 9876543210")
	want := map[string]int{LabelDoctor: 1, LabelDate: 2, LabelPhone: 1}
	if diff := cmp.Diff(want, rep.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if rep.Total() != 4 {
		t.Fatalf("Total() = %d, want 4", rep.Total())
	}
	if diff := cmp.Diff([]string{LabelDate, LabelDoctor, LabelPhone}, rep.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRedactor_Document(t *testing.T) {
	in := document.Document{
		Title:       "Summary for Patient Name: Ravi Kumar",
		SubjectID:   "PATIENT-001",
		GeneratedAt: "12/03/2024",
		Sections: []document.Section{
			{Heading: "Contacts", Points: []string{"Email ravi@example.org", "No identifiers here"}},
			{Heading: "Seen by Dr. Anita Sharma"},
		},
	}
	got, rep := Default().Document(in)
	want := document.Document{
		Title:       "Summary for [NAME-REDACTED]",
		SubjectID:   "PATIENT-001",
		GeneratedAt: "12/03/2024",
		Sections: []document.Section{
			{Heading: "Contacts", Points: []string{"Email [EMAIL-REDACTED]", "No identifiers here"}},
			{Heading: "Seen by [DOCTOR-REDACTED]"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if rep.Subject || rep.Total() != 3 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if in.Sections[0].Points[0] != "Email ravi@example.org" {
		t.Fatalf("input document was mutated")
	}

	_, rep = Default().Document(document.Document{SubjectID: "1234 5678 9012"})
	if !rep.Subject {
		t.Fatalf("an Aadhaar subject should be reported as redacted")
	}
}

func TestNew_CustomRules(t *testing.T) {
	r := New(MustRule("MRN", `\bMRN-\d+\b`))
	got, rep := r.String("MRN-42 and 9876543210")
	if got != "[MRN-REDACTED] and 9876543210" || rep.Counts["MRN"] != 1 {
		t.Fatalf("custom rule gave %q %+v", got, rep)
	}

	ext := Default().With(MustRule("MRN", `\bMRN-\d+\b`))
	got, rep = ext.String("MRN-42 and 9876543210")
	if got != "[MRN-REDACTED] and [PHONE-REDACTED]" || rep.Total() != 2 {
		t.Fatalf("extended redactor gave %q %+v", got, rep)
	}
	if got, _ := Default().String("MRN-42"); got != "MRN-42" {
		t.Fatalf("With must not change the receiver, got %q", got)
	}
	if _, err := NewRule("BAD", `(`); err == nil {
		t.Fatalf("invalid expression should fail")
	}
}
