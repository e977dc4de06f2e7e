package testutil

import (
	"testing"

	"github.com/roach88/phonebook/internal/store"
)

// NewMemoryStore opens a private in-memory store that is closed when the test
// ends.
func NewMemoryStore(t testing.TB) *store.Store {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}
