package record

import "strings"

// Fields is the request body accepted by create and update operations.
// Name carries the contacts key, FullName the people key; [Fields.Patch]
// picks the one that belongs to the kind.
type Fields struct {
	Name        *string `json:"name,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// Patch converts the body into a patch for kind.
func (f Fields) Patch(kind Kind) Patch {
	name := f.Name
	if kind.Derives {
		name = f.FullName
	}
	return Patch{Name: name, PhoneNumber: f.PhoneNumber}
}

// Patch lists the fields an update supplies. Nil means "leave unchanged".
type Patch struct {
	Name        *string
	PhoneNumber *string
}

// Validate returns ErrInvalidInput if the patch supplies no field, or if a
// supplied field is blank.
func (p Patch) Validate() error {
	if p.Name == nil && p.PhoneNumber == nil {
		return ErrInvalidInput
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrInvalidInput
	}
	if p.PhoneNumber != nil && strings.TrimSpace(*p.PhoneNumber) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Derive creates a record from the patch's fields. Absent fields count as
// blank.
func (p Patch) Derive(kind Kind, ids IDGenerator) (Record, error) {
	return Derive(kind, deref(p.Name), deref(p.PhoneNumber), ids)
}

// Filter holds optional equality filters for listings.
type Filter struct {
	Name        *string
	PhoneNumber *string
}

// IDsFromEntries extracts the usable ids from the elements of a batch delete
// body. Entries lacking an "id", or carrying a non-string or blank one, are
// dropped; duplicates are removed and first-seen order is kept.
func IDsFromEntries(entries []map[string]any) []string {
	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry["id"].(string)
		if !ok {
			continue
		}
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
