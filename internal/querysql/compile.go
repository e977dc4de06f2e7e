package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/phonebook/internal/queryir"
)

// likeEscaper escapes LIKE wildcards so a prefix is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQLCompiler compiles queryir statements to parameterized SQL for SQLite.
//
// CRITICAL: every SELECT includes ORDER BY with an id tiebreaker.
// CRITICAL: all values are parameterized, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error) tuple. The query is validated first, so
// identifiers reaching the SQL text are always plain names.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := q.(type) {
	case *queryir.Select:
		q = *query
	case *queryir.Insert:
		q = *query
	case *queryir.Update:
		q = *query
	case *queryir.Delete:
		q = *query
	}

	if err := queryir.Validate(q); err != nil {
		return "", nil, fmt.Errorf("invalid query: %w", err)
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case queryir.Insert:
		return c.compileInsert(query)
	case queryir.Update:
		return c.compileUpdate(query)
	case queryir.Delete:
		return c.compileDelete(query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	where, params, err := c.whereClause(q.Filter)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		strings.Join(q.Columns, ", "),
		q.From,
		where,
		stableOrderKey(q.OrderBy))

	return sql, params, nil
}

// stableOrderKey returns the ORDER BY terms for a select.
// The primary key is always the last term so ties are broken the same way
// on every run. COLLATE BINARY keeps text ordering independent of locale.
func stableOrderKey(orderBy string) string {
	if orderBy == "" || orderBy == "id" {
		return "id COLLATE BINARY ASC"
	}
	return orderBy + " COLLATE BINARY ASC, id COLLATE BINARY ASC"
}

func (c *SQLCompiler) compileInsert(q queryir.Insert) (string, []any, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(q.Columns)), ", ")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		q.Into,
		strings.Join(q.Columns, ", "),
		placeholders)

	params := make([]any, len(q.Values))
	copy(params, q.Values)
	return sql, params, nil
}

func (c *SQLCompiler) compileUpdate(q queryir.Update) (string, []any, error) {
	sets := make([]string, len(q.Set))
	params := make([]any, 0, len(q.Set))
	for i, a := range q.Set {
		sets[i] = a.Column + " = ?"
		params = append(params, a.Value)
	}

	where, whereParams, err := c.whereClause(q.Filter)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s%s", q.Table, strings.Join(sets, ", "), where)
	return sql, append(params, whereParams...), nil
}

func (c *SQLCompiler) compileDelete(q queryir.Delete) (string, []any, error) {
	where, params, err := c.whereClause(q.Filter)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("DELETE FROM %s%s", q.From, where), params, nil
}

func (c *SQLCompiler) whereClause(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	sql, params, err := c.compilePredicate(p)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	return " WHERE " + sql, params, nil
}

// compilePredicate compiles a predicate to a WHERE clause fragment.
// CRITICAL: values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case queryir.Equals:
		return pred.Field + " = ?", []any{pred.Value}, nil
	case queryir.In:
		return c.compileIn(pred)
	case queryir.HasPrefix:
		return pred.Field + ` LIKE ? ESCAPE '\'`, []any{likeEscaper.Replace(pred.Prefix) + "%"}, nil
	case queryir.And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileIn(in queryir.In) (string, []any, error) {
	if len(in.Values) == 0 {
		return "", nil, fmt.Errorf("empty IN list for %q", in.Field)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(in.Values)), ", ")
	params := make([]any, len(in.Values))
	copy(params, in.Values)
	return fmt.Sprintf("%s IN (%s)", in.Field, placeholders), params, nil
}

// compileAnd compiles an And predicate to conjunction with AND.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // vacuous truth
	}

	var sqlParts []string
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	if len(sqlParts) == 1 {
		return sqlParts[0], allParams, nil
	}
	return "(" + strings.Join(sqlParts, " AND ") + ")", allParams, nil
}
