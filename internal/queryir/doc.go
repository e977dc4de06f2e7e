// Package queryir describes the statements the phonebook store issues, as
// data rather than as SQL text.
//
// The store never concatenates user input into SQL. Instead it builds a
// Query value (Select, Insert, Update or Delete) whose filter is a tree of
// Predicates, and hands it to a backend compiler (see package querysql) that
// emits placeholder SQL plus a parameter list.
//
// Optional fields are expressed by omission: a listing filtered on name only
// carries one Equals predicate, an update that changes only the phone number
// carries one Assignment. Absent fields never reach the SQL text.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so backends can switch
// exhaustively:
//
//	switch q := query.(type) {
//	case Select:
//	case Insert:
//	case Update:
//	case Delete:
//	}
//
// Identifiers (tables and columns) are the one part of a statement that
// cannot be parameterised. [Validate] rejects any identifier that is not a
// plain SQL name, so a caller mistake cannot turn into an injection.
package queryir
