package queryir

import (
	"errors"
	"fmt"
	"regexp"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or underscore.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that a query is safe and well-formed to compile.
//
// Rules:
//  1. Every table and column name is a plain SQL identifier
//  2. Select, Insert and Update name at least one column
//  3. Insert carries exactly one value per column
//  4. Update and Delete carry a filter (no whole-table writes)
//  5. In lists are non-empty
//  6. Values are strings, integers, booleans or nil
//
// All violations are reported together, joined with errors.Join.
// Validate is a pure function with no side effects.
func Validate(q Query) error {
	v := &validator{}
	v.validateQuery(q)
	return errors.Join(v.errs...)
}

// validator accumulates violations during traversal.
type validator struct {
	errs []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) identifier(role, name string) {
	if !validIdentifier.MatchString(name) {
		v.addError("invalid %s identifier %q", role, name)
	}
}

func (v *validator) value(field string, val any) {
	switch val.(type) {
	case nil, string, int, int64, bool:
	default:
		v.addError("unsupported value type %T for %q", val, field)
	}
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addError("nil query")
	case Select:
		v.validateSelect(query)
	case Insert:
		v.validateInsert(query)
	case Update:
		v.validateUpdate(query)
	case Delete:
		v.validateDelete(query)
	default:
		v.addError("unsupported query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	v.identifier("table", sel.From)
	if len(sel.Columns) == 0 {
		v.addError("select from %q: explicit column list required", sel.From)
	}
	for _, c := range sel.Columns {
		v.identifier("column", c)
	}
	if sel.OrderBy != "" {
		v.identifier("order", sel.OrderBy)
	}
	v.validatePredicate(sel.Filter)
}

func (v *validator) validateInsert(ins Insert) {
	v.identifier("table", ins.Into)
	if len(ins.Columns) == 0 {
		v.addError("insert into %q: no columns", ins.Into)
	}
	if len(ins.Columns) != len(ins.Values) {
		v.addError("insert into %q: %d columns but %d values", ins.Into, len(ins.Columns), len(ins.Values))
	}
	for i, c := range ins.Columns {
		v.identifier("column", c)
		if i < len(ins.Values) {
			v.value(c, ins.Values[i])
		}
	}
}

func (v *validator) validateUpdate(upd Update) {
	v.identifier("table", upd.Table)
	if len(upd.Set) == 0 {
		v.addError("update %q: empty SET list", upd.Table)
	}
	for _, a := range upd.Set {
		v.identifier("column", a.Column)
		v.value(a.Column, a.Value)
	}
	if upd.Filter == nil {
		v.addError("update %q: filter required", upd.Table)
	}
	v.validatePredicate(upd.Filter)
}

func (v *validator) validateDelete(del Delete) {
	v.identifier("table", del.From)
	if del.Filter == nil {
		v.addError("delete from %q: filter required", del.From)
	}
	v.validatePredicate(del.Filter)
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		// nil predicates are valid (no filter)
	case Equals:
		v.identifier("column", pred.Field)
		v.value(pred.Field, pred.Value)
	case In:
		v.identifier("column", pred.Field)
		if len(pred.Values) == 0 {
			v.addError("empty IN list for %q", pred.Field)
		}
		for _, val := range pred.Values {
			v.value(pred.Field, val)
		}
	case HasPrefix:
		v.identifier("column", pred.Field)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addError("unsupported predicate type: %T", p)
	}
}
