package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteStringLiteral(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		input    string
		expected string
	}{
		{"ClickHousePlain", NewClickHouseDialect(), "foo", "'foo'"},
		{"ClickHouseQuote", NewClickHouseDialect(), "it's", `'it\'s'`},
		{"ClickHouseBackslash", NewClickHouseDialect(), `a\b`, `'a\\b'`},
		{"PostgresPlain", NewPostgresDialect(), "foo", "'foo'"},
		{"PostgresQuote", NewPostgresDialect(), "it's", "'it''s'"},
		{"PostgresBackslash", NewPostgresDialect(), `a\b`, ` E'a\\b'`},
		{"MySQLQuote", NewMySQLDialect(), "it's", "'it''s'"},
		{"MySQLNewline", NewMySQLDialect(), "a\nb", `'a\nb'`},
		{"SQLiteQuote", NewSQLiteDialect(), "it's", "'it''s'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.QuoteStringLiteral(tt.input))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`events`", NewClickHouseDialect().QuoteIdentifier("events"))
	assert.Equal(t, `"events"`, NewPostgresDialect().QuoteIdentifier("events"))
	assert.Equal(t, "`a``b`", NewMySQLDialect().QuoteIdentifier("a`b"))
	assert.Equal(t, `"a""b"`, NewSQLiteDialect().QuoteIdentifier(`a"b`))
}

func TestLookup(t *testing.T) {
	d, err := Lookup("ClickHouse")
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", d.Name())

	d, err = Lookup("pgx")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Lookup("oracle")
	assert.Error(t, err)

	Register("custom", NewSQLiteDialect)
	assert.Contains(t, Names(), "custom")
}
