// Package seed fills a phonebook with fake records.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/roach88/phonebook/internal/record"
)

// PhonePattern is the shape of generated phone numbers; each # becomes a
// random digit.
const PhonePattern = "+44 7### ######"

// Inserter stores a batch of records, skipping names already taken.
type Inserter interface {
	InsertManyIfAbsent(ctx context.Context, recs []record.Record) ([]record.Record, error)
}

// Generate derives n records of kind with fake names and phone numbers.
// The same faker seed yields the same names and numbers.
func Generate(faker *gofakeit.Faker, kind record.Kind, n int, ids record.IDGenerator) ([]record.Record, error) {
	recs := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := record.Derive(kind, faker.Name(), faker.Numerify(PhonePattern), ids)
		if err != nil {
			return nil, fmt.Errorf("generate %s %d: %w", kind.Noun, i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Result reports the outcome of a Load.
type Result struct {
	Generated int
	Inserted  int
}

// Skipped is the number of generated records whose name was already taken.
func (r Result) Skipped() int {
	return r.Generated - r.Inserted
}

// Load generates n records of kind and inserts them into dst.
func Load(ctx context.Context, dst Inserter, faker *gofakeit.Faker, kind record.Kind, n int, ids record.IDGenerator) (Result, error) {
	recs, err := Generate(faker, kind, n, ids)
	if err != nil {
		return Result{}, err
	}

	inserted, err := dst.InsertManyIfAbsent(ctx, recs)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", kind.Name, err)
	}

	return Result{Generated: len(recs), Inserted: len(inserted)}, nil
}
