package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/phonebook/internal/record"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestContact derives a contact with a fixed id.
func createTestContact(t *testing.T, id, name, phone string) record.Record {
	t.Helper()
	rec, err := record.Derive(record.Contacts, name, phone, record.NewFixedGenerator(id))
	if err != nil {
		t.Fatalf("Derive() failed: %v", err)
	}
	return rec
}

// createTestPerson derives a person with a fixed id.
func createTestPerson(t *testing.T, id, fullName, phone string) record.Record {
	t.Helper()
	rec, err := record.Derive(record.People, fullName, phone, record.NewFixedGenerator(id))
	if err != nil {
		t.Fatalf("Derive() failed: %v", err)
	}
	return rec
}

// mustInsert inserts recs and fails the test unless all were written.
func mustInsert(t *testing.T, s *Store, recs ...record.Record) {
	t.Helper()
	inserted, err := s.InsertManyIfAbsent(t.Context(), recs)
	if err != nil {
		t.Fatalf("InsertManyIfAbsent() failed: %v", err)
	}
	if len(inserted) != len(recs) {
		t.Fatalf("inserted %d of %d records", len(inserted), len(recs))
	}
}

func names(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func strPtr(s string) *string { return &s }
