// Package statement binds parameters into a SQL template, rewrites it into
// literal SQL and runs it through a database.Client.
//
// A Statement is not safe for concurrent use. Bindings and the captured rows
// are plain fields; callers sharing one across goroutines must lock.
package statement

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/chstmt/cache"
	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/dialect"
	"github.com/Konsultn-Engineering/chstmt/encoder"
	"github.com/Konsultn-Engineering/chstmt/logging"
	"github.com/Konsultn-Engineering/chstmt/scanner"
	"github.com/Konsultn-Engineering/chstmt/utils"
	"github.com/Konsultn-Engineering/chstmt/value"
)

var ErrNoClient = errors.New("statement has no database client")

type Statement struct {
	id       string
	client   database.Client
	sql      string
	dialect  dialect.Dialect
	bindings map[Key]binding

	rows       database.RowSet
	generation uint64
	lastSQL    string

	logger       *slog.Logger
	cache        *cache.TemplateCache
	readPrefixes []string
}

// New creates a statement for the SQL template sql. A nil dialect means
// ClickHouse quoting.
func New(client database.Client, sql string, d dialect.Dialect, opts ...Option) *Statement {
	if d == nil {
		d = dialect.NewClickHouseDialect()
	}
	s := &Statement{
		id:           ids.next(),
		client:       client,
		sql:          sql,
		dialect:      d,
		bindings:     make(map[Key]binding),
		logger:       logging.Logger(),
		cache:        cache.Shared(),
		readPrefixes: append([]string(nil), DefaultReadPrefixes...),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("stmt", s.id)
	return s
}

func (s *Statement) ID() string { return s.id }

// SQL returns the template the statement was created with.
func (s *Statement) SQL() string { return s.sql }

// LastSQL returns the rewritten SQL of the last dispatched execution.
func (s *Statement) LastSQL() string { return s.lastSQL }

// BindValue binds a snapshot of v to key, replacing any earlier binding.
// An optional declared type overrides the type inferred from v.
func (s *Statement) BindValue(key Key, v value.Value, t ...value.Type) bool {
	s.bindings[key] = binding{val: v, typ: declared(t)}
	return true
}

// BindVariable binds key to the variable ref points at. The variable is read
// when the statement executes, not now: any change made to it between this
// call and Execute is what gets sent. ref must be a pointer, either to a
// value.Value or to a Go value accepted by value.FromAny; otherwise nothing
// is bound and false is returned. A nil pointer binds NULL.
func (s *Statement) BindVariable(key Key, ref any, t ...value.Type) bool {
	rv := reflect.ValueOf(ref)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer {
		return false
	}
	s.bindings[key] = binding{ref: ref, typ: declared(t)}
	return true
}

func declared(t []value.Type) value.Type {
	if len(t) == 0 {
		return value.TypeNone
	}
	return t[0]
}

// Execute merges extra into the bindings, rewrites the template and
// dispatches it: statements starting with a read prefix go to Select, all
// others to Write. Encoding errors are returned before anything is sent and
// leave the statement untouched. Client errors are returned as is; the
// captured rows are discarded and must not be relied on until the next
// successful Execute.
func (s *Statement) Execute(ctx context.Context, extra Params) (*Cursor, error) {
	if s.client == nil {
		return nil, ErrNoClient
	}

	bindings := s.merged(extra)
	sql, err := s.rewrite(bindings)
	if err != nil {
		s.logger.Debug("rewrite failed", "error", err)
		return nil, err
	}
	s.bindings = bindings
	s.lastSQL = sql

	read := isRead(sql, s.readPrefixes)
	verb := "write"
	if read {
		verb = "select"
	}
	s.logger.Debug("dispatching statement",
		"verb", verb,
		"template", utils.ShortFingerprint(s.sql),
		"sql", sql)

	start := time.Now()
	var rs database.RowSet
	if read {
		rs, err = s.client.Select(ctx, sql)
	} else {
		rs, err = s.client.Write(ctx, sql)
	}
	s.generation++
	if err != nil {
		s.rows = database.RowSet{}
		s.logger.Debug("dispatch failed", "verb", verb, "duration", time.Since(start), "error", err)
		return nil, err
	}

	s.rows = rs
	s.logger.Debug("statement executed",
		"verb", verb,
		"duration", time.Since(start),
		"rows", rs.Len(),
		"affected", rs.RowsAffected)
	return s.Cursor(), nil
}

// Rewrite returns the SQL that Execute would dispatch for the current
// bindings merged with extra, without sending it or changing the statement.
func (s *Statement) Rewrite(extra Params) (string, error) {
	return s.rewrite(s.merged(extra))
}

// Cursor returns a new cursor over the rows captured by the last execution.
func (s *Statement) Cursor() *Cursor {
	return newCursor(s, s.rows)
}

// FreeResult drops the captured rows and every binding, and invalidates any
// cursor handed out so far. It is safe to call repeatedly.
func (s *Statement) FreeResult() {
	s.rows = database.RowSet{}
	s.bindings = make(map[Key]binding)
	s.generation++
}

func (s *Statement) merged(extra Params) map[Key]binding {
	out := make(map[Key]binding, len(s.bindings)+len(extra))
	for k, b := range s.bindings {
		out[k] = b
	}
	for k, v := range extra {
		// Extra values replace the bound value but keep a declared type.
		out[k] = binding{val: v, typ: out[k].typ}
	}
	return out
}

// rewrite replaces placeholders with literals. `?` placeholders consume
// positional bindings in ascending key order; once they run out the `?` is
// kept, since it may be the ternary operator. `:name` placeholders without a
// binding are kept as well.
func (s *Statement) rewrite(bindings map[Key]binding) (string, error) {
	tpl := s.cache.GetOrScan(s.sql)
	if tpl.Positional == 0 && len(tpl.Names()) == 0 {
		return s.sql, nil
	}

	positional, named := partition(bindings)
	literals := make(map[Key]string, len(positional)+named)

	encode := func(k Key) (string, error) {
		if lit, ok := literals[k]; ok {
			return lit, nil
		}
		b := bindings[k]
		v, err := b.resolve()
		if err != nil {
			return "", &encoder.EncodingError{Kind: encoder.ErrUnsupportedType, Type: b.typ, Reason: k.String() + ": " + err.Error()}
		}
		lit, err := encoder.Encode(v, b.typ, s.dialect)
		if err != nil {
			return "", err
		}
		literals[k] = lit
		return lit, nil
	}

	var sb strings.Builder
	sb.Grow(len(s.sql) + 8*len(tpl.Tokens))
	next := 0
	for _, tok := range tpl.Tokens {
		var key Key
		switch tok.Kind {
		case scanner.TokenPositional:
			if next >= len(positional) {
				sb.WriteString(tok.Raw)
				continue
			}
			key = positional[next]
			next++
		case scanner.TokenNamed:
			key = Name(tok.Name)
			if _, ok := bindings[key]; !ok {
				sb.WriteString(tok.Raw)
				continue
			}
		default:
			sb.WriteString(tok.Raw)
			continue
		}

		lit, err := encode(key)
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
	}
	return sb.String(), nil
}
