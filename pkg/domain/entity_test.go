package domain

import (
	"testing"

	dErrors "pathcrm/pkg/domain-errors"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		name    string
		kind    EntityKind
		input   string
		want    Status
		wantErr bool
	}{
		{"contact pending", KindContact, "Pending", StatusPending, false},
		{"contact contacted", KindContact, "Contacted", StatusContacted, false},
		{"contact lead", KindContact, "Lead", StatusLead, false},
		{"demo scheduled", KindDemo, "Scheduled", StatusScheduled, false},
		{"demo cancelled", KindDemo, "Cancelled", StatusCancelled, false},
		{"demo rejects contact-only status", KindDemo, "Contacted", "", true},
		{"contact rejects demo-only status", KindContact, "Scheduled", "", true},
		{"unknown status", KindDemo, "Archived", "", true},
		{"empty status", KindContact, "", "", true},
		{"case sensitive", KindContact, "pending", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStatus(tc.kind, tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				if !dErrors.Is(err, dErrors.CodeInvalidStatus) {
					t.Fatalf("expected invalid_status code, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseEntityKind(t *testing.T) {
	if _, err := ParseEntityKind("contact"); err != nil {
		t.Fatalf("contact should parse: %v", err)
	}
	if _, err := ParseEntityKind("demo"); err != nil {
		t.Fatalf("demo should parse: %v", err)
	}
	if _, err := ParseEntityKind("ticket"); err == nil {
		t.Fatalf("unknown kind should not parse")
	}
}
