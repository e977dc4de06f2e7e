package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phonebook/internal/record"
)

func TestInsertIfAbsent_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ok, err := s.InsertIfAbsent(ctx, createTestContact(t, "c-1", "Ada", "+44 1"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Get(ctx, record.Contacts, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "+44 1", got.PhoneNumber)
}

func TestInsertIfAbsent_DuplicateNameSkipped(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestContact(t, "c-1", "Ada", "+44 1"))

	ok, err := s.InsertIfAbsent(ctx, createTestContact(t, "c-2", "Ada", "+44 2"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Name matching is exact: a different case is a different name.
	ok, err = s.InsertIfAbsent(ctx, createTestContact(t, "c-3", "ada", "+44 3"))
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.Count(ctx, record.Contacts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInsertManyIfAbsent_CountsWritten(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestPerson(t, "p-0", "Existing Person", "+1"))

	inserted, err := s.InsertManyIfAbsent(ctx, []record.Record{
		createTestPerson(t, "p-1", "Ada Lovelace", "+1"),
		createTestPerson(t, "p-2", "Existing Person", "+2"),
		createTestPerson(t, "p-3", "Grace Hopper", "+3"),
		createTestPerson(t, "p-4", "Ada Lovelace", "+4"),
	})
	require.NoError(t, err)

	require.Len(t, inserted, 2)
	assert.Equal(t, "p-1", inserted[0].ID)
	assert.Equal(t, "p-3", inserted[1].ID)

	n, err := s.Count(ctx, record.People)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsertManyIfAbsent_Empty(t *testing.T) {
	s := createTestStore(t)

	inserted, err := s.InsertManyIfAbsent(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, inserted)
	assert.Empty(t, inserted)
}

func TestInsertManyIfAbsent_MixedKindsRejected(t *testing.T) {
	s := createTestStore(t)

	_, err := s.InsertManyIfAbsent(context.Background(), []record.Record{
		createTestContact(t, "c-1", "Ada", "+1"),
		createTestPerson(t, "p-1", "Grace Hopper", "+2"),
	})
	assert.ErrorIs(t, err, record.ErrInvalidInput)

	n, err := s.Count(context.Background(), record.Contacts)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "failed batch must not write anything")
}

func TestInsertIfAbsent_IDReuseConflicts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestContact(t, "c-1", "Ada", "+1"))

	_, err := s.InsertIfAbsent(ctx, createTestContact(t, "c-1", "Grace", "+2"))
	assert.ErrorIs(t, err, record.ErrConflict)

	_, err = s.Delete(ctx, record.Contacts, "c-1")
	require.NoError(t, err)

	_, err = s.InsertIfAbsent(ctx, createTestContact(t, "c-1", "Grace", "+2"))
	assert.ErrorIs(t, err, record.ErrConflict, "deleted ids are never reused")
}

// Check-then-insert is not atomic across processes. Within one store the
// single pooled connection serializes the transactions, so concurrent
// inserts of one name still yield a single row.
func TestInsertIfAbsent_ConcurrentSameName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ids := record.NewFixedGenerator("c-1", "c-2", "c-3", "c-4", "c-5", "c-6", "c-7", "c-8")
	var recs []record.Record
	for i := 0; i < 8; i++ {
		rec, err := record.Derive(record.Contacts, "Ada", "+1", ids)
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	var wg sync.WaitGroup
	results := make([]bool, len(recs))
	errs := make([]error, len(recs))
	for i, rec := range recs {
		wg.Add(1)
		go func(i int, rec record.Record) {
			defer wg.Done()
			results[i], errs[i] = s.InsertIfAbsent(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	written := 0
	for i := range recs {
		require.NoError(t, errs[i])
		if results[i] {
			written++
		}
	}
	assert.Equal(t, 1, written)
}

func TestUpdate_PartialPatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	person := createTestPerson(t, "p-1", "Ada Lovelace", "+44 1")
	mustInsert(t, s, person)

	updated, err := s.Update(ctx, record.People, "p-1", record.Patch{PhoneNumber: strPtr(" +44 2 ")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "+44 2", updated.PhoneNumber)

	updated, err = s.Update(ctx, record.People, "p-1", record.Patch{Name: strPtr("Augusta King")})
	require.NoError(t, err)
	assert.Equal(t, "Augusta King", updated.Name)
	assert.Equal(t, "+44 2", updated.PhoneNumber)

	// Derived fields keep their creation-time values.
	assert.Equal(t, person.FirstName, updated.FirstName)
	assert.Equal(t, person.LastName, updated.LastName)
	assert.Equal(t, person.EmailAddress, updated.EmailAddress)
	assert.Equal(t, person.LinkedInProfile, updated.LinkedInProfile)
}

func TestUpdate_RefreshesSearchKey(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestContact(t, "c-1", "Ada", "+1"))

	_, err := s.Update(ctx, record.Contacts, "c-1", record.Patch{Name: strPtr("Grace")})
	require.NoError(t, err)

	_, err = s.SearchPrefix(ctx, record.Contacts, "ada")
	assert.ErrorIs(t, err, record.ErrNotFound)

	recs, err := s.SearchPrefix(ctx, record.Contacts, "gr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace"}, names(recs))
}

func TestUpdate_Failures(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestContact(t, "c-1", "Ada", "+1"))

	_, err := s.Update(ctx, record.Contacts, "missing", record.Patch{Name: strPtr("X")})
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, err = s.Update(ctx, record.Contacts, "c-1", record.Patch{})
	assert.ErrorIs(t, err, record.ErrInvalidInput)

	_, err = s.Update(ctx, record.Contacts, "c-1", record.Patch{PhoneNumber: strPtr("  ")})
	assert.ErrorIs(t, err, record.ErrInvalidInput)

	got, err := s.Get(ctx, record.Contacts, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "+1", got.PhoneNumber)
}

func TestDelete_ReturnsPreDeletionRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	contact := createTestContact(t, "c-1", "Ada", "+1")
	mustInsert(t, s, contact)

	deleted, err := s.Delete(ctx, record.Contacts, "c-1")
	require.NoError(t, err)
	assert.Equal(t, contact, deleted)

	_, err = s.Get(ctx, record.Contacts, "c-1")
	assert.ErrorIs(t, err, record.ErrNotFound)

	_, err = s.Delete(ctx, record.Contacts, "c-1")
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestDeleteMany_SkipsUnknownIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s,
		createTestContact(t, "c-1", "Ada", "+1"),
		createTestContact(t, "c-2", "Grace", "+2"),
		createTestContact(t, "c-3", "Linus", "+3"),
	)

	deleted, err := s.DeleteMany(ctx, record.Contacts, []string{"c-3", "missing", "c-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ada", "Linus"}, names(deleted))

	remaining, err := s.List(ctx, record.Contacts, record.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace"}, names(remaining))
}

func TestDeleteMany_EmptySignals(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, createTestContact(t, "c-1", "Ada", "+1"))

	_, err := s.DeleteMany(ctx, record.Contacts, nil)
	assert.ErrorIs(t, err, record.ErrInvalidInput)

	_, err = s.DeleteMany(ctx, record.Contacts, []string{"x", "y"})
	assert.ErrorIs(t, err, record.ErrNotFound)

	n, err := s.Count(ctx, record.Contacts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteMany_MoreIDsThanOneStatementBinds(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustInsert(t, s,
		createTestContact(t, "c-1", "Ada", "+1"),
		createTestContact(t, "c-2", "Grace", "+2"),
		createTestContact(t, "c-3", "Linus", "+3"),
	)

	// Far beyond SQLite's bound-variable limit; the known ids sit in
	// different chunks and c-3 repeats across them.
	ids := []string{"c-3"}
	for i := 0; i < 40000; i++ {
		ids = append(ids, fmt.Sprintf("unknown-%d", i))
		if i == 1200 {
			ids = append(ids, "c-1", "c-3")
		}
	}

	deleted, err := s.DeleteMany(ctx, record.Contacts, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Linus"}, names(deleted))

	remaining, err := s.List(ctx, record.Contacts, record.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace"}, names(remaining))

	_, err = s.DeleteMany(ctx, record.Contacts, ids)
	assert.ErrorIs(t, err, record.ErrNotFound)
}
