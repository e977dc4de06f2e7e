// Package record defines the phonebook data model shared by the store, the
// HTTP handlers and the CLI.
//
// A record is one row of a phonebook table. Two kinds exist:
//
//   - Contacts: id, name and phone_number.
//   - People: id, full_name and phone_number, plus fields derived from the
//     full name at creation time (first_name, last_name, email_address,
//     linkedin_profile).
//
// # Derivation
//
// [Derive] is the only place where ids and derived fields are produced. It
// runs once, when a record is created. Updates go through [Patch], which can
// change the name and phone number but never recomputes derived fields.
//
// # Errors
//
// Expected outcomes are reported with sentinel errors ([ErrNotFound],
// [ErrInvalidInput], [ErrConflict]) and are checked with errors.Is. Datastore
// failures are wrapped in [*StorageError]; they are the only errors that
// callers should treat as fatal for a request.
package record
