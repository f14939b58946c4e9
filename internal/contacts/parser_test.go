package contacts_test

import (
	"testing"

	"github.com/voxblast/callcenter-backend/internal/contacts"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "15551234567"},          // 10 digits get country prefix
		{"15551234567", "15551234567"},         // 11 digits starting with 1 pass through
		{"(555) 123-4567", "15551234567"},      // punctuation stripped
		{"+1 555 123 4567", "15551234567"},     // formatted 11 digits
		{"445551234567", "445551234567"},       // international kept as-is
		{"123", "123"},                         // too short, returned raw
		{"abc555def1234567", "15551234567"},    // letters stripped
	}

	for _, c := range cases {
		if got := contacts.FormatPhoneNumber(c.in); got != c.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseMixedInput(t *testing.T) {
	raw := `
alice@example.com|Alice Smith|5551234567

5559876543
bob@example.com|Bob Jones|(555) 111-2222
123
short|line
`

	parsed := contacts.Parse(raw)
	if len(parsed) != 3 {
		t.Fatalf("expected 3 contacts, got %d: %+v", len(parsed), parsed)
	}

	if parsed[0].Name != "Alice Smith" || parsed[0].Email != "alice@example.com" {
		t.Errorf("unexpected first contact: %+v", parsed[0])
	}
	if parsed[0].Phone != "15551234567" {
		t.Errorf("expected normalized phone 15551234567, got %q", parsed[0].Phone)
	}
	if parsed[0].OriginalPhone != "5551234567" {
		t.Errorf("original phone should be preserved, got %q", parsed[0].OriginalPhone)
	}

	// Bare phone line carries no name or email.
	if parsed[1].Name != "" || parsed[1].Email != "" {
		t.Errorf("bare phone line should have empty name/email: %+v", parsed[1])
	}
	if parsed[1].Phone != "15559876543" {
		t.Errorf("expected 15559876543, got %q", parsed[1].Phone)
	}

	if parsed[2].Phone != "15551112222" {
		t.Errorf("expected 15551112222, got %q", parsed[2].Phone)
	}
}

func TestParseDropsShortNumbers(t *testing.T) {
	parsed := contacts.Parse("12345\n555123\nx@y.com|Short|99")
	if len(parsed) != 0 {
		t.Errorf("expected all short numbers dropped, got %+v", parsed)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if got := contacts.Parse(""); len(got) != 0 {
		t.Errorf("expected no contacts from empty input, got %+v", got)
	}
	if got := contacts.Parse("   \n\n  "); len(got) != 0 {
		t.Errorf("expected no contacts from blank input, got %+v", got)
	}
}
