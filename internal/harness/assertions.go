package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/phonebook/internal/record"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// evaluate checks one assertion against the store.
func (h *Harness) evaluate(ctx context.Context, a Assertion) error {
	kind, err := record.KindByName(a.Kind)
	if err != nil {
		return err
	}

	switch a.Type {
	case AssertRecordCount:
		return h.assertRecordCount(ctx, kind, a)
	case AssertRecordState:
		return h.assertRecordState(ctx, kind, a)
	case AssertRecordAbsent:
		return h.assertRecordAbsent(ctx, kind, a)
	case AssertListOrder:
		return h.assertListOrder(ctx, kind, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func (h *Harness) assertRecordCount(ctx context.Context, kind record.Kind, a Assertion) error {
	n, err := h.store.Count(ctx, kind)
	if err != nil {
		return err
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertRecordCount,
			Expected: fmt.Sprintf("%d %s", a.Count, kind.Name),
			Actual:   fmt.Sprintf("%d", n),
		}
	}
	return nil
}

func (h *Harness) assertRecordState(ctx context.Context, kind record.Kind, a Assertion) error {
	rec, err := h.store.Get(ctx, kind, a.ID)
	if errors.Is(err, record.ErrNotFound) {
		return &AssertionError{
			Type:     AssertRecordState,
			Expected: fmt.Sprintf("%s %q to exist", kind.Noun, a.ID),
			Actual:   "not found",
		}
	}
	if err != nil {
		return err
	}

	fields, err := recordFields(rec)
	if err != nil {
		return err
	}

	// Report mismatches in key order for stable messages.
	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mismatches []string
	for _, k := range keys {
		got, ok := fields[k]
		if !ok || !valuesEqual(a.Expect[k], got) {
			mismatches = append(mismatches, fmt.Sprintf("%s=%v (want %v)", k, got, a.Expect[k]))
		}
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertRecordState,
			Expected: fmt.Sprintf("%s %q to match %v", kind.Noun, a.ID, a.Expect),
			Actual:   strings.Join(mismatches, ", "),
		}
	}
	return nil
}

func (h *Harness) assertRecordAbsent(ctx context.Context, kind record.Kind, a Assertion) error {
	_, err := h.store.Get(ctx, kind, a.ID)
	if errors.Is(err, record.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &AssertionError{
		Type:     AssertRecordAbsent,
		Expected: fmt.Sprintf("%s %q to be absent", kind.Noun, a.ID),
		Actual:   "found",
	}
}

func (h *Harness) assertListOrder(ctx context.Context, kind record.Kind, a Assertion) error {
	recs, err := h.store.List(ctx, kind, record.Filter{})
	if err != nil {
		return err
	}

	got := make([]string, len(recs))
	for i, rec := range recs {
		got[i] = rec.Name
	}
	want := a.Names
	if want == nil {
		want = []string{}
	}

	if !reflect.DeepEqual(want, got) {
		return &AssertionError{
			Type:     AssertListOrder,
			Expected: fmt.Sprintf("%q", want),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

// recordFields returns the record as its JSON object.
func recordFields(rec record.Record) (map[string]any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// valuesEqual compares a YAML-decoded expectation with a JSON-decoded value.
// All record fields are strings, so values compare by their text form.
func valuesEqual(want, got any) bool {
	return fmt.Sprint(want) == fmt.Sprint(got)
}
