package record

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	emailDomain    = "example.com"
	linkedInPrefix = "www.linkedin.com/"
)

// Derive builds a new record of the given kind from a name and phone number.
//
// Returns ErrInvalidInput if either value is blank. The name is trimmed and
// NFC-normalised; the phone number is stored as given (trimmed) since its
// shape is a client convention. For kinds that derive, the first
// whitespace-separated token of the name becomes FirstName and the remaining
// tokens, joined by single spaces, become LastName.
func Derive(kind Kind, name, phoneNumber string, ids IDGenerator) (Record, error) {
	name = NormalizeName(name)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if name == "" || phoneNumber == "" {
		return Record{}, ErrInvalidInput
	}

	rec := Record{
		Kind:        kind,
		ID:          ids.Generate(),
		Name:        name,
		PhoneNumber: phoneNumber,
	}
	if !kind.Derives {
		return rec, nil
	}

	tokens := strings.Fields(name)
	rec.FirstName = tokens[0]
	rec.LastName = strings.Join(tokens[1:], " ")

	lower := cases.Lower(language.Und)
	first := lower.String(rec.FirstName)
	last := lower.String(rec.LastName)
	if last == "" {
		rec.EmailAddress = first + "@" + emailDomain
		rec.LinkedInProfile = linkedInPrefix + first
	} else {
		rec.EmailAddress = first + "." + last + "@" + emailDomain
		rec.LinkedInProfile = linkedInPrefix + first + "-" + last
	}
	return rec, nil
}

// NormalizeName trims a name and converts it to Unicode NFC so that equal
// names compare equal in the store.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Fold returns the case-folded form of a name or prefix, used as the search
// key for prefix matching.
func Fold(s string) string {
	return cases.Fold().String(NormalizeName(s))
}
