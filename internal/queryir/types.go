package queryir

// Query is a statement against one table.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Predicate is a filter condition used in WHERE clauses.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Select reads Columns from a table.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <order_by>, id
//
// Every Select is ordered: backends MUST emit an ORDER BY even when OrderBy
// is empty (the primary key is used), so results are deterministic.
type Select struct {
	From    string    // Table name
	Columns []string  // Explicit column list (no SELECT *)
	Filter  Predicate // WHERE conditions (nil = all rows)
	OrderBy string    // Primary sort column, ascending
}

func (Select) queryNode() {}

// Insert writes one row.
type Insert struct {
	Into    string
	Columns []string
	Values  []any // One value per column, same order
}

func (Insert) queryNode() {}

// Assignment sets a column to a value in an Update.
type Assignment struct {
	Column string
	Value  any
}

// Update changes the Set columns of every row matching Filter.
// Filter is required: unfiltered updates are rejected by Validate.
type Update struct {
	Table  string
	Set    []Assignment
	Filter Predicate
}

func (Update) queryNode() {}

// Delete removes every row matching Filter.
// Filter is required: unfiltered deletes are rejected by Validate.
type Delete struct {
	From   string
	Filter Predicate
}

func (Delete) queryNode() {}

// Equals matches rows whose Field equals Value.
//
//	field = ?
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// In matches rows whose Field equals any of Values.
//
//	field IN (?, ?, ...)
type In struct {
	Field  string
	Values []any
}

func (In) predicateNode() {}

// HasPrefix matches rows whose Field starts with Prefix.
// LIKE wildcards in Prefix are matched literally.
//
//	field LIKE ? ESCAPE '\'
type HasPrefix struct {
	Field  string
	Prefix string
}

func (HasPrefix) predicateNode() {}

// And matches rows satisfying all Predicates. An empty And matches all rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// AllOf combines preds into a single predicate, dropping nils.
// Returns nil when nothing remains, a lone predicate unchanged, and an And
// otherwise.
func AllOf(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}
