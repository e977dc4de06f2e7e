package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phonebook/internal/record"
)

func TestNewMemoryStore_Isolated(t *testing.T) {
	a := NewMemoryStore(t)
	b := NewMemoryStore(t)

	rec, err := record.Derive(record.Contacts, "Ada Lovelace", "+44 20 7946 0000", NewSequentialIDs("c"))
	require.NoError(t, err)

	ok, err := a.InsertIfAbsent(t.Context(), rec)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := b.Count(t.Context(), record.Contacts)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
