// internal/contacts/parser.go
package contacts

import (
	"strings"
)

// ParsedContact is one valid line of pasted contact data, phone already
// normalized. Nothing is persisted yet at this stage.
type ParsedContact struct {
	Name          string
	Email         string
	Phone         string
	OriginalPhone string
}

// FormatPhoneNumber strips non-digits and normalizes to the dialable form:
// a bare 10-digit number gets the "1" country prefix, an 11-digit number
// already starting with 1 passes through, anything else is kept as-is
// (may be international).
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 10 {
		return "1" + digits
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return digits
	}
	return digits
}

// Parse splits raw pasted contact data into contacts. Each non-blank line is
// either "Email|Name|Phone" or a bare phone number. Lines whose formatted
// phone has fewer than 10 digits are dropped here and never reach dialing.
func Parse(raw string) []ParsedContact {
	parsed := []ParsedContact{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "|") {
			parts := strings.Split(line, "|")
			if len(parts) < 3 {
				continue
			}
			email := strings.TrimSpace(parts[0])
			name := strings.TrimSpace(parts[1])
			phone := strings.TrimSpace(parts[2])

			formatted := FormatPhoneNumber(phone)
			if len(formatted) < 10 {
				continue
			}
			parsed = append(parsed, ParsedContact{
				Name:          name,
				Email:         email,
				Phone:         formatted,
				OriginalPhone: phone,
			})
			continue
		}

		formatted := FormatPhoneNumber(line)
		if len(formatted) < 10 {
			continue
		}
		parsed = append(parsed, ParsedContact{
			Phone:         formatted,
			OriginalPhone: line,
		})
	}

	return parsed
}
