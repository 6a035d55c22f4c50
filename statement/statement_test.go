package statement

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/chstmt/cache"
	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
	"github.com/Konsultn-Engineering/chstmt/encoder"
	"github.com/Konsultn-Engineering/chstmt/value"
)

func newStmt(client database.Client, sql string, opts ...Option) *Statement {
	opts = append([]Option{WithCache(cache.NewTemplateCache(16))}, opts...)
	return New(client, sql, dialect.NewClickHouseDialect(), opts...)
}

func lastCall(t *testing.T, m *database.MemoryClient) database.Call {
	t.Helper()
	call, ok := m.LastCall()
	require.True(t, ok, "nothing dispatched")
	return call
}

func TestExecuteRoundTrip(t *testing.T) {
	m := database.NewMemoryClient().Respond(database.RowSet{
		Columns: []string{"x"},
		Rows:    []database.Row{{"x": int64(5)}},
	})
	s := newStmt(m, "SELECT * FROM t WHERE x = ? AND y = :name")

	assert.True(t, s.BindValue(Pos(0), value.Int(5)))
	assert.True(t, s.BindValue(Name("name"), value.String("foo")))

	cur, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)

	call := lastCall(t, m)
	assert.True(t, call.Read)
	assert.Equal(t, "SELECT * FROM t WHERE x = 5 AND y = 'foo'", call.Query)
	assert.Equal(t, call.Query, s.LastSQL())
	assert.Equal(t, []database.Row{{"x": int64(5)}}, cur.All())
}

func TestExecuteWritePath(t *testing.T) {
	m := database.NewMemoryClient()
	s := newStmt(m, "INSERT INTO t VALUES (?)")
	s.BindValue(Pos(0), value.Int(7))

	cur, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cur.Len())

	call := lastCall(t, m)
	assert.False(t, call.Read)
	assert.Equal(t, "INSERT INTO t VALUES (7)", call.Query)
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		bind     func(s *Statement)
		extra    Params
		expected string
	}{
		{
			name: "PositionalAscendingOrder",
			sql:  "SELECT ?, ?, ?",
			bind: func(s *Statement) {
				s.BindValue(Pos(2), value.Int(3))
				s.BindValue(Pos(0), value.Int(1))
				s.BindValue(Pos(1), value.Int(2))
			},
			expected: "SELECT 1, 2, 3",
		},
		{
			name: "SparsePositionalKeys",
			sql:  "SELECT ?, ?",
			bind: func(s *Statement) {
				s.BindValue(Pos(10), value.Int(2))
				s.BindValue(Pos(3), value.Int(1))
			},
			expected: "SELECT 1, 2",
		},
		{
			name: "ExcessPlaceholdersKept",
			sql:  "SELECT ?, ?, ?",
			bind: func(s *Statement) {
				s.BindValue(Pos(0), value.Int(1))
			},
			expected: "SELECT 1, ?, ?",
		},
		{
			name:     "TernaryKept",
			sql:      "SELECT a > 1 ? 'x' : 'y', b ?: c",
			bind:     func(s *Statement) {},
			expected: "SELECT a > 1 ? 'x' : 'y', b ?: c",
		},
		{
			name: "RepeatedName",
			sql:  "SELECT :v + :v",
			bind: func(s *Statement) {
				s.BindValue(Name("v"), value.String("a"))
			},
			expected: "SELECT 'a' + 'a'",
		},
		{
			name: "NamePrefixesDoNotCollide",
			sql:  "SELECT :id, :idx",
			bind: func(s *Statement) {
				s.BindValue(Name("id"), value.Int(1))
				s.BindValue(Name("idx"), value.Int(2))
			},
			expected: "SELECT 1, 2",
		},
		{
			name: "UnboundNameKept",
			sql:  "SELECT :a, :b, x::String",
			bind: func(s *Statement) {
				s.BindValue(Name("a"), value.Int(1))
			},
			expected: "SELECT 1, :b, x::String",
		},
		{
			name: "DeclaredTypes",
			sql:  "SELECT ?, ?, :n",
			bind: func(s *Statement) {
				s.BindValue(Pos(0), value.Bool(true), value.TypeBoolean)
				s.BindValue(Pos(1), value.String("42"), value.TypeInteger)
				s.BindValue(Name("n"), value.Null(), value.TypeString)
			},
			expected: "SELECT 1, 42, NULL",
		},
		{
			name: "Arrays",
			sql:  "SELECT * FROM t WHERE has(:tags, tag) AND id IN ?",
			bind: func(s *Statement) {
				s.BindValue(Name("tags"), value.Strings("a", "b"))
				s.BindValue(Pos(0), value.Ints(1, 2, 3))
			},
			expected: "SELECT * FROM t WHERE has(['a', 'b'], tag) AND id IN [1, 2, 3]",
		},
		{
			name: "ExtraOverridesBinding",
			sql:  "SELECT ?, :n",
			bind: func(s *Statement) {
				s.BindValue(Pos(0), value.Int(1))
				s.BindValue(Name("n"), value.Int(1), value.TypeBoolean)
			},
			extra:    Params{Pos(0): value.Int(9), Name("n"): value.Int(0)},
			expected: "SELECT 9, 0",
		},
		{
			name: "ColonKeyNormalized",
			sql:  "SELECT :n",
			bind: func(s *Statement) {
				s.BindValue(Name(":n"), value.Int(4))
			},
			expected: "SELECT 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStmt(database.NewMemoryClient(), tt.sql)
			tt.bind(s)
			got, err := s.Rewrite(tt.extra)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRebindOverwrites(t *testing.T) {
	s := newStmt(database.NewMemoryClient(), "SELECT ?")
	s.BindValue(Pos(0), value.Int(1), value.TypeBoolean)
	s.BindValue(Pos(0), value.Int(5))

	got, err := s.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 5", got)
}

func TestExtraParamsPersist(t *testing.T) {
	m := database.NewMemoryClient()
	s := newStmt(m, "SELECT ?")

	_, err := s.Execute(context.Background(), Params{Pos(0): value.Int(3)})
	require.NoError(t, err)

	_, err = s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 3", lastCall(t, m).Query)
}

func TestBindVariableIsLateBound(t *testing.T) {
	m := database.NewMemoryClient()
	s := newStmt(m, "SELECT ?, :name, :v")

	n := 1
	name := "before"
	v := value.Int(10)
	assert.True(t, s.BindVariable(Pos(0), &n))
	assert.True(t, s.BindVariable(Name("name"), &name))
	assert.True(t, s.BindVariable(Name("v"), &v))

	n = 2
	name = "after"
	v = value.Strings("x")

	_, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2, 'after', ['x']", lastCall(t, m).Query)
}

type priority int

func TestBindVariableNamedScalar(t *testing.T) {
	m := database.NewMemoryClient()
	s := newStmt(m, "SELECT :p")

	p := priority(1)
	require.True(t, s.BindVariable(Name("p"), &p))
	p = 3

	_, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 3", lastCall(t, m).Query)
}

func TestBindVariableRequiresPointer(t *testing.T) {
	s := newStmt(database.NewMemoryClient(), "SELECT ?")
	assert.False(t, s.BindVariable(Pos(0), 5))
	assert.False(t, s.BindVariable(Pos(0), nil))

	var p *int
	assert.True(t, s.BindVariable(Pos(0), p))
	got, err := s.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT NULL", got)
}

func TestBindVariableUnsupported(t *testing.T) {
	s := newStmt(database.NewMemoryClient(), "SELECT ?")
	ch := make(chan int)
	require.True(t, s.BindVariable(Pos(0), &ch))

	_, err := s.Rewrite(nil)
	assert.ErrorIs(t, err, encoder.ErrUnsupportedType)
}

func TestEncodingErrorAbortsBeforeDispatch(t *testing.T) {
	m := database.NewMemoryClient().Respond(database.RowSet{Rows: []database.Row{{"a": 1}}})
	s := newStmt(m, "SELECT ?")
	s.BindValue(Pos(0), value.Int(1))

	cur, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, cur.Len())

	_, err = s.Execute(context.Background(), Params{Pos(0): value.Seq(value.Int(1), value.String("a"))})
	require.Error(t, err)
	assert.ErrorIs(t, err, encoder.ErrInvalidArrayMix)

	// nothing sent, earlier state intact
	assert.Len(t, m.Calls(), 1)
	assert.Equal(t, "SELECT 1", s.LastSQL())
	assert.False(t, cur.Stale())
	assert.Equal(t, 1, cur.Len())

	got, err := s.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", got)
}

func TestClientErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("connection reset")
	m := database.NewMemoryClient().Respond(database.RowSet{Rows: []database.Row{{"a": 1}}})
	s := newStmt(m, "SELECT 1")

	cur, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)

	m.Fail(boom)
	got, err := s.Execute(context.Background(), nil)
	assert.Nil(t, got)
	assert.Same(t, boom, err)
	assert.True(t, cur.Stale())
	assert.Equal(t, 0, s.Cursor().Len())
}

func TestExecuteWithoutClient(t *testing.T) {
	s := newStmt(nil, "SELECT 1")
	_, err := s.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestFreeResult(t *testing.T) {
	m := database.NewMemoryClient().Respond(database.RowSet{Rows: []database.Row{{"a": 1}, {"a": 2}}})
	s := newStmt(m, "SELECT ?, :n")
	s.BindValue(Pos(0), value.Int(1))
	s.BindValue(Name("n"), value.Int(2))

	cur, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, cur.Len())

	s.FreeResult()
	s.FreeResult()

	assert.True(t, cur.Stale())
	assert.False(t, cur.Next())
	assert.Empty(t, cur.All())
	assert.Nil(t, cur.Columns())

	_, err = s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT ?, :n", lastCall(t, m).Query)
}

func TestReadClassification(t *testing.T) {
	tests := []struct {
		sql  string
		read bool
	}{
		{"SELECT 1", true},
		{"  \n\tselect 1", true},
		{"Show tables", true},
		{"DESCRIBE TABLE t", true},
		{"INSERT INTO t VALUES (1)", false},
		{"ALTER TABLE t DELETE WHERE 1", false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"/* c */ SELECT 1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.read, isRead(tt.sql, DefaultReadPrefixes))
		})
	}
}

func TestWithReadPrefixes(t *testing.T) {
	m := database.NewMemoryClient()
	s := newStmt(m, "WITH x AS (SELECT 1) SELECT * FROM x", WithReadPrefixes("with"))

	_, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, lastCall(t, m).Read)
}

func TestStatementIDs(t *testing.T) {
	a := newStmt(nil, "SELECT 1")
	b := newStmt(nil, "SELECT 1")
	assert.Len(t, a.ID(), 26)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "SELECT 1", a.SQL())
}

func TestNilDialectDefaultsToClickHouse(t *testing.T) {
	s := New(nil, "SELECT ?", nil)
	s.BindValue(Pos(0), value.String("it's"))
	got, err := s.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT 'it\'s'`, got)
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, Pos(0), ParseKey("0"))
	assert.Equal(t, Pos(12), ParseKey("12"))
	assert.Equal(t, Name("name"), ParseKey("name"))
	assert.Equal(t, Name("name"), ParseKey(":name"))
	assert.Equal(t, Name("-1"), ParseKey("-1"))
	assert.Equal(t, Name("+1"), ParseKey("+1"))

	assert.Equal(t, "3", Pos(3).String())
	assert.Equal(t, ":n", Name("n").String())
	assert.Equal(t, -1, Name("n").Index())
	assert.Equal(t, 3, Pos(3).Index())
	assert.Panics(t, func() { Pos(-1) })
}

func TestWithLoggerAndCache(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tc := cache.NewTemplateCache(4)

	m := database.NewMemoryClient()
	s := New(m, "SELECT :a", nil, WithLogger(logger), WithCache(tc))
	s.BindValue(Name("a"), value.Int(7))

	_, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.Execute(context.Background(), nil)
	require.NoError(t, err)

	hits, misses := tc.Stats()
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, uint64(1), hits)
	assert.Contains(t, buf.String(), "stmt="+s.ID())
	assert.Contains(t, buf.String(), "verb=select")
	assert.Contains(t, buf.String(), `sql="SELECT 7"`)
}

func TestNamedKeyCharacters(t *testing.T) {
	s := newStmt(database.NewMemoryClient(), "SELECT :città, :user.id")
	s.BindValue(Name("città"), value.String("Roma"))
	s.BindValue(Name("user.id"), value.Int(1))

	got, err := s.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 'Roma', :user.id", got)
}
