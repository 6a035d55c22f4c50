package dialect

import (
	"github.com/lib/pq"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string {
	return "postgres"
}

func (Postgres) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// QuoteStringLiteral doubles single quotes and switches to the E'' form when
// the text contains backslashes.
func (Postgres) QuoteStringLiteral(s string) string {
	return pq.QuoteLiteral(s)
}
