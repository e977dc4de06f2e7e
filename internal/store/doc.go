// Package store provides SQLite-backed storage for phonebook records.
//
// One table exists per record kind (contacts, people). Each table carries,
// besides the record's own columns, an internal name_fold column holding the
// case-folded name that prefix searches match against.
//
// # Critical Patterns
//
// Parameterized statements
//   - Statements are built as queryir values and compiled by querysql
//   - User-supplied values are always bound, never interpolated
//
// Deterministic listings
//   - Every listing is ordered by name (COLLATE BINARY), then id
//   - Ties on name always come back in the same order
//
// Ids are never reused
//   - Deleted ids are recorded in retired_ids
//   - Inserting a record whose id is live or retired fails with record.ErrConflict
//
// Check-then-insert
//   - Duplicate names are detected by a lookup before the insert, inside one
//     transaction on the single pooled connection
//   - Two processes sharing one database file can still race; no unique
//     constraint on names exists
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Driver failures are returned as *record.StorageError. Expected outcomes
// (not found, invalid input, conflict) are returned as the record package's
// sentinel errors.
package store
