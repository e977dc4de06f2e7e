package record

import "fmt"

// Kind describes one phonebook table and how its records are presented.
type Kind struct {
	// Name is the collection name used in URLs and on the command line.
	Name string

	// Table is the SQLite table holding records of this kind.
	Table string

	// NameColumn is the column (and JSON key) holding the record's name.
	NameColumn string

	// Noun is the singular used in confirmation messages.
	Noun string

	// Derives reports whether creation derives first/last name, email
	// address and profile URL from the name.
	Derives bool
}

var (
	// Contacts is the minimal kind: id, name, phone_number.
	Contacts = Kind{
		Name:       "contacts",
		Table:      "contacts",
		NameColumn: "name",
		Noun:       "contact",
	}

	// People stores a full name plus fields derived from it.
	People = Kind{
		Name:       "people",
		Table:      "people",
		NameColumn: "full_name",
		Noun:       "person",
		Derives:    true,
	}
)

// Kinds lists every supported kind in routing order.
var Kinds = []Kind{Contacts, People}

// KindByName returns the kind registered under name.
func KindByName(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, nil
		}
	}
	return Kind{}, fmt.Errorf("unknown kind %q: must be one of contacts, people", name)
}

// Columns returns the stored columns of the kind in scan order.
// The internal search column is not included.
func (k Kind) Columns() []string {
	if k.Derives {
		return []string{"id", k.NameColumn, "first_name", "last_name", "email_address", "phone_number", "linkedin_profile"}
	}
	return []string{"id", k.NameColumn, "phone_number"}
}

// String returns the kind's collection name.
func (k Kind) String() string {
	return k.Name
}
