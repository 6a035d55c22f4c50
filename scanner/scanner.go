// Package scanner splits a SQL template into literal text and placeholder
// tokens in a single left-to-right pass.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind uint8

const (
	TokenText TokenKind = iota
	TokenPositional
	TokenNamed
)

func (k TokenKind) String() string {
	switch k {
	case TokenPositional:
		return "positional"
	case TokenNamed:
		return "named"
	default:
		return "text"
	}
}

// Token is one piece of a template. Raw always holds the exact source text,
// so an unresolved placeholder can be written back unchanged. Name is the
// placeholder name without its colon.
type Token struct {
	Kind TokenKind
	Raw  string
	Name string
}

// Template is the tokenized form of a SQL string.
type Template struct {
	SQL        string
	Tokens     []Token
	Positional int
	names      []string
}

// Names returns the distinct named placeholders in order of first use.
func (t *Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Scan tokenizes sql. A `?` is always a positional candidate; `:ident` is a
// named candidate where ident is the longest run of Unicode letters, digits
// and underscores. Any other character ends the name, so `:user.id` is the
// name `user` followed by text `.id`. `::` is plain text so type casts never
// look like names. Quoted sections are not special-cased: the rewriter has
// no SQL grammar.
func Scan(sql string) *Template {
	t := &Template{SQL: sql}
	seen := make(map[string]struct{})

	start := 0
	flush := func(end int) {
		if end > start {
			t.Tokens = append(t.Tokens, Token{Kind: TokenText, Raw: sql[start:end]})
		}
	}

	for i := 0; i < len(sql); {
		switch sql[i] {
		case '?':
			flush(i)
			t.Tokens = append(t.Tokens, Token{Kind: TokenPositional, Raw: "?"})
			t.Positional++
			i++
			start = i
		case ':':
			if i+1 < len(sql) && sql[i+1] == ':' {
				i += 2
				continue
			}
			j := i + 1
			for j < len(sql) {
				r, size := utf8.DecodeRuneInString(sql[j:])
				if !isIdentRune(r) {
					break
				}
				j += size
			}
			if j == i+1 {
				i++
				continue
			}
			flush(i)
			name := sql[i+1 : j]
			t.Tokens = append(t.Tokens, Token{Kind: TokenNamed, Raw: sql[i:j], Name: name})
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				t.names = append(t.names, name)
			}
			i = j
			start = i
		default:
			i++
		}
	}
	flush(len(sql))
	return t
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// String reassembles the template text from its tokens.
func (t *Template) String() string {
	var sb strings.Builder
	sb.Grow(len(t.SQL))
	for _, tok := range t.Tokens {
		sb.WriteString(tok.Raw)
	}
	return sb.String()
}
