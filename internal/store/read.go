package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/phonebook/internal/queryir"
	"github.com/roach88/phonebook/internal/record"
)

// List returns every record of kind matching filter, ordered by name
// ascending (case-sensitive), ties broken by id.
//
// Absent filter fields do not constrain the result. Returns an empty slice
// (not nil) if nothing matches.
func (s *Store) List(ctx context.Context, kind record.Kind, filter record.Filter) ([]record.Record, error) {
	var preds []queryir.Predicate
	if filter.Name != nil {
		preds = append(preds, queryir.Equals{Field: kind.NameColumn, Value: record.NormalizeName(*filter.Name)})
	}
	if filter.PhoneNumber != nil {
		preds = append(preds, queryir.Equals{Field: "phone_number", Value: strings.TrimSpace(*filter.PhoneNumber)})
	}

	return s.selectRecords(ctx, s.db, "list "+kind.Name, kind, queryir.AllOf(preds...))
}

// Get returns the record of kind with the given id.
// Returns record.ErrNotFound if no such record exists.
func (s *Store) Get(ctx context.Context, kind record.Kind, id string) (record.Record, error) {
	return s.get(ctx, s.db, kind, id)
}

func (s *Store) get(ctx context.Context, q querier, kind record.Kind, id string) (record.Record, error) {
	records, err := s.selectRecords(ctx, q, "get "+kind.Noun, kind, queryir.Equals{Field: "id", Value: id})
	if err != nil {
		return record.Record{}, err
	}
	if len(records) == 0 {
		return record.Record{}, fmt.Errorf("%s %q: %w", kind.Noun, id, record.ErrNotFound)
	}
	return records[0], nil
}

// SearchPrefix returns the records of kind whose name starts with prefix,
// compared case-insensitively, ordered like List.
//
// Returns record.ErrInvalidInput for a blank prefix and record.ErrNotFound
// when nothing matches, so callers can tell the two apart.
func (s *Store) SearchPrefix(ctx context.Context, kind record.Kind, prefix string) ([]record.Record, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, fmt.Errorf("blank search prefix: %w", record.ErrInvalidInput)
	}

	records, err := s.selectRecords(ctx, s.db, "search "+kind.Name, kind,
		queryir.HasPrefix{Field: "name_fold", Prefix: record.Fold(prefix)})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no %s starting with %q: %w", kind.Name, prefix, record.ErrNotFound)
	}
	return records, nil
}

// Count returns the number of records of kind.
func (s *Store) Count(ctx context.Context, kind record.Kind) (int, error) {
	// kind.Table comes from the fixed set of kinds, never from a request.
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+kind.Table).Scan(&n); err != nil {
		return 0, record.NewStorageError("count "+kind.Name, err)
	}
	return n, nil
}
