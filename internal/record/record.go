package record

import "encoding/json"

// Record is one row of a phonebook table.
//
// FirstName, LastName, EmailAddress and LinkedInProfile are only populated
// for kinds that derive them (see [Kind.Derives]).
type Record struct {
	Kind            Kind
	ID              string
	Name            string
	PhoneNumber     string
	FirstName       string
	LastName        string
	EmailAddress    string
	LinkedInProfile string
}

type contactJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type personJSON struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	EmailAddress    string `json:"email_address"`
	PhoneNumber     string `json:"phone_number"`
	LinkedInProfile string `json:"linkedin_profile"`
}

// MarshalJSON encodes the record using its kind's field names.
// Contacts encode as {id, name, phone_number}; people carry the full field set.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Kind.Derives {
		return json.Marshal(personJSON{
			ID:              r.ID,
			FullName:        r.Name,
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			EmailAddress:    r.EmailAddress,
			PhoneNumber:     r.PhoneNumber,
			LinkedInProfile: r.LinkedInProfile,
		})
	}
	return json.Marshal(contactJSON{
		ID:          r.ID,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
	})
}

// Values returns the record's column values in [Kind.Columns] order.
func (r Record) Values() []any {
	if r.Kind.Derives {
		return []any{r.ID, r.Name, r.FirstName, r.LastName, r.EmailAddress, r.PhoneNumber, r.LinkedInProfile}
	}
	return []any{r.ID, r.Name, r.PhoneNumber}
}

// ScanTargets returns pointers to the record's fields in [Kind.Columns] order,
// for use with sql.Rows.Scan.
func (r *Record) ScanTargets() []any {
	if r.Kind.Derives {
		return []any{&r.ID, &r.Name, &r.FirstName, &r.LastName, &r.EmailAddress, &r.PhoneNumber, &r.LinkedInProfile}
	}
	return []any{&r.ID, &r.Name, &r.PhoneNumber}
}
