package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/phonebook/internal/queryir"
	"github.com/roach88/phonebook/internal/record"
)

// InsertIfAbsent writes rec unless a record of the same kind already has
// exactly the same name. Reports whether rec was written.
func (s *Store) InsertIfAbsent(ctx context.Context, rec record.Record) (bool, error) {
	inserted, err := s.InsertManyIfAbsent(ctx, []record.Record{rec})
	if err != nil {
		return false, err
	}
	return len(inserted) == 1, nil
}

// InsertManyIfAbsent writes each candidate whose name is not already taken,
// either by a stored record or by an earlier candidate of the same batch.
// Returns the candidates actually written, in input order.
//
// All candidates must share one kind. The whole batch runs in a single
// transaction: a candidate whose id is live or retired fails the batch with
// record.ErrConflict and nothing is written.
func (s *Store) InsertManyIfAbsent(ctx context.Context, recs []record.Record) ([]record.Record, error) {
	inserted := []record.Record{}
	if len(recs) == 0 {
		return inserted, nil
	}

	kind := recs[0].Kind
	op := "insert " + kind.Name

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		batchNames := make(map[string]bool, len(recs))

		for _, rec := range recs {
			if rec.Kind != kind {
				return fmt.Errorf("%s: mixed kinds in batch (%s): %w", op, rec.Kind, record.ErrInvalidInput)
			}
			if batchNames[rec.Name] {
				continue
			}

			taken, err := s.exists(ctx, tx, op, kind.Table, queryir.Equals{Field: kind.NameColumn, Value: rec.Name})
			if err != nil {
				return err
			}
			if taken {
				continue
			}

			if err := s.checkIDFree(ctx, tx, kind, rec.ID); err != nil {
				return err
			}

			columns := append(kind.Columns(), "name_fold")
			values := append(rec.Values(), record.Fold(rec.Name))
			if _, err := s.exec(ctx, tx, op, queryir.Insert{Into: kind.Table, Columns: columns, Values: values}); err != nil {
				return err
			}

			batchNames[rec.Name] = true
			inserted = append(inserted, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// checkIDFree returns record.ErrConflict if id belongs to a live or
// previously deleted record of kind.
func (s *Store) checkIDFree(ctx context.Context, q querier, kind record.Kind, id string) error {
	op := "insert " + kind.Name

	live, err := s.exists(ctx, q, op, kind.Table, queryir.Equals{Field: "id", Value: id})
	if err != nil {
		return err
	}
	retired, err := s.exists(ctx, q, op, "retired_ids", queryir.And{Predicates: []queryir.Predicate{
		queryir.Equals{Field: "kind", Value: kind.Name},
		queryir.Equals{Field: "id", Value: id},
	}})
	if err != nil {
		return err
	}

	if live || retired {
		return fmt.Errorf("%s id %q already used: %w", kind.Noun, id, record.ErrConflict)
	}
	return nil
}

// Update changes the fields patch supplies on the record of kind with the
// given id and returns the full post-update record.
//
// Derived fields are never recomputed. Returns record.ErrInvalidInput if the
// patch supplies no field (or a blank one) and record.ErrNotFound if the id
// is unknown.
func (s *Store) Update(ctx context.Context, kind record.Kind, id string, patch record.Patch) (record.Record, error) {
	if err := patch.Validate(); err != nil {
		return record.Record{}, fmt.Errorf("update %s %q: %w", kind.Noun, id, err)
	}

	var set []queryir.Assignment
	if patch.Name != nil {
		name := record.NormalizeName(*patch.Name)
		set = append(set,
			queryir.Assignment{Column: kind.NameColumn, Value: name},
			queryir.Assignment{Column: "name_fold", Value: record.Fold(name)})
	}
	if patch.PhoneNumber != nil {
		set = append(set, queryir.Assignment{Column: "phone_number", Value: strings.TrimSpace(*patch.PhoneNumber)})
	}

	op := "update " + kind.Noun
	var updated record.Record
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		n, err := s.exec(ctx, tx, op, queryir.Update{
			Table:  kind.Table,
			Set:    set,
			Filter: queryir.Equals{Field: "id", Value: id},
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s %q: %w", kind.Noun, id, record.ErrNotFound)
		}

		updated, err = s.get(ctx, tx, kind, id)
		return err
	})
	if err != nil {
		return record.Record{}, err
	}

	return updated, nil
}

// Delete removes the record of kind with the given id and returns it as it
// was before deletion. Returns record.ErrNotFound if the id is unknown.
func (s *Store) Delete(ctx context.Context, kind record.Kind, id string) (record.Record, error) {
	deleted, err := s.DeleteMany(ctx, kind, []string{id})
	if err != nil {
		return record.Record{}, err
	}
	return deleted[0], nil
}

// maxIDsPerStatement bounds the ids bound into one IN list, keeping every
// statement under SQLite's bound-variable limit.
const maxIDsPerStatement = 500

// DeleteMany removes every record of kind whose id is in ids and returns the
// records actually deleted, ordered by name.
//
// Returns record.ErrInvalidInput if ids is empty and record.ErrNotFound if
// none of the ids resolve to a stored record. Any number of ids is accepted;
// they are looked up and deleted in chunks within one transaction.
func (s *Store) DeleteMany(ctx context.Context, kind record.Kind, ids []string) ([]record.Record, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("delete %s: no ids: %w", kind.Name, record.ErrInvalidInput)
	}

	op := "delete " + kind.Name
	var deleted []record.Record
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		for chunk := range slices.Chunk(uniqueIDs(ids), maxIDsPerStatement) {
			found, err := s.deleteChunk(ctx, tx, op, kind, chunk)
			if err != nil {
				return err
			}
			deleted = append(deleted, found...)
		}
		if len(deleted) == 0 {
			return fmt.Errorf("%s: none of %d ids found: %w", op, len(ids), record.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(deleted, func(a, b record.Record) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return deleted, nil
}

// deleteChunk deletes the stored records among ids and retires their ids.
func (s *Store) deleteChunk(ctx context.Context, tx *sql.Tx, op string, kind record.Kind, ids []string) ([]record.Record, error) {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	found, err := s.selectRecords(ctx, tx, op, kind, queryir.In{Field: "id", Values: values})
	if err != nil || len(found) == 0 {
		return nil, err
	}

	foundIDs := make([]any, len(found))
	for i, rec := range found {
		foundIDs[i] = rec.ID
	}
	if _, err := s.exec(ctx, tx, op, queryir.Delete{
		From:   kind.Table,
		Filter: queryir.In{Field: "id", Values: foundIDs},
	}); err != nil {
		return nil, err
	}

	for _, rec := range found {
		if _, err := s.exec(ctx, tx, op, queryir.Insert{
			Into:    "retired_ids",
			Columns: []string{"kind", "id"},
			Values:  []any{kind.Name, rec.ID},
		}); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
