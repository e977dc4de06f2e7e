package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/phonebook/internal/queryir"
)

func TestCompile_SimpleSelect(t *testing.T) {
	compiler := NewSQLCompiler()

	query := queryir.Select{
		From:    "contacts",
		Columns: []string{"id", "name", "phone_number"},
		Filter:  queryir.Equals{Field: "name", Value: "Ada Lovelace"},
		OrderBy: "name",
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, phone_number FROM contacts WHERE name = ? ORDER BY name COLLATE BINARY ASC, id COLLATE BINARY ASC",
		sql)
	assert.NotContains(t, sql, "Ada")
	assert.Equal(t, []any{"Ada Lovelace"}, params)
}

func TestCompile_SimpleSelectPointer(t *testing.T) {
	compiler := NewSQLCompiler()

	query := &queryir.Select{
		From:    "contacts",
		Columns: []string{"id"},
		Filter:  queryir.Equals{Field: "phone_number", Value: "+44"},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM contacts WHERE phone_number = ? ORDER BY id COLLATE BINARY ASC", sql)
	assert.Equal(t, []any{"+44"}, params)
}

func TestCompile_OrderByMandatory(t *testing.T) {
	compiler := NewSQLCompiler()

	testCases := []struct {
		name  string
		query queryir.Query
	}{
		{"no filter", queryir.Select{From: "contacts", Columns: []string{"id"}}},
		{"filter", queryir.Select{From: "contacts", Columns: []string{"id"}, Filter: queryir.Equals{Field: "id", Value: "x"}}},
		{"ordered by id", queryir.Select{From: "people", Columns: []string{"id"}, OrderBy: "id"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, _, err := compiler.Compile(tc.query)
			require.NoError(t, err)
			assert.Contains(t, sql, "ORDER BY")
			assert.Contains(t, sql, "id COLLATE BINARY ASC")
		})
	}
}

func TestCompile_HasPrefixEscapesWildcards(t *testing.T) {
	compiler := NewSQLCompiler()

	query := queryir.Select{
		From:    "contacts",
		Columns: []string{"id"},
		Filter:  queryir.HasPrefix{Field: "name_fold", Prefix: `50%_off\`},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Contains(t, sql, `WHERE name_fold LIKE ? ESCAPE '\'`)
	assert.Equal(t, []any{`50\%\_off\\%`}, params)
}

func TestCompile_AndWithIn(t *testing.T) {
	compiler := NewSQLCompiler()

	query := queryir.Select{
		From:    "people",
		Columns: []string{"id"},
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.In{Field: "id", Values: []any{"a", "b", "c"}},
			queryir.Equals{Field: "phone_number", Value: "+1"},
		}},
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM people WHERE (id IN (?, ?, ?) AND phone_number = ?) ORDER BY id COLLATE BINARY ASC",
		sql)
	assert.Equal(t, []any{"a", "b", "c", "+1"}, params)
}

func TestCompile_EmptyAndMatchesAll(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{
		From:    "contacts",
		Columns: []string{"id"},
		Filter:  queryir.And{},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE 1 = 1")
	assert.Empty(t, params)
}

func TestCompile_Insert(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Insert{
		Into:    "contacts",
		Columns: []string{"id", "name", "phone_number"},
		Values:  []any{"c-1", "Robert'); DROP TABLE contacts;--", "+1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO contacts (id, name, phone_number) VALUES (?, ?, ?)", sql)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{"c-1", "Robert'); DROP TABLE contacts;--", "+1"}, params)
}

func TestCompile_Update(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Update{
		Table: "contacts",
		Set: []queryir.Assignment{
			{Column: "name", Value: "Ada"},
			{Column: "name_fold", Value: "ada"},
		},
		Filter: queryir.Equals{Field: "id", Value: "c-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE contacts SET name = ?, name_fold = ? WHERE id = ?", sql)
	assert.Equal(t, []any{"Ada", "ada", "c-1"}, params)
}

func TestCompile_Delete(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(&queryir.Delete{
		From:   "people",
		Filter: queryir.In{Field: "id", Values: []any{"p-1", "p-2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM people WHERE id IN (?, ?)", sql)
	assert.Equal(t, []any{"p-1", "p-2"}, params)
}

func TestCompile_RejectsInvalidQueries(t *testing.T) {
	compiler := NewSQLCompiler()

	_, _, err := compiler.Compile(nil)
	assert.Error(t, err)

	_, _, err = compiler.Compile(queryir.Delete{From: "contacts"})
	assert.ErrorContains(t, err, "filter required")

	_, _, err = compiler.Compile(queryir.Select{From: "contacts x", Columns: []string{"id"}})
	assert.ErrorContains(t, err, "invalid table identifier")

	_, _, err = compiler.Compile(queryir.Select{
		From:    "contacts",
		Columns: []string{"id"},
		Filter:  &queryir.Equals{Field: "id", Value: "c-1"},
	})
	assert.ErrorContains(t, err, "unsupported predicate type: *queryir.Equals")
}
