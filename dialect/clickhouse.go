package dialect

import "strings"

type ClickHouse struct{}

func NewClickHouseDialect() Dialect {
	return &ClickHouse{}
}

func (ClickHouse) Name() string {
	return "clickhouse"
}

var (
	chIdentEscaper  = strings.NewReplacer("`", "\\`", `\`, `\\`)
	chStringEscaper = strings.NewReplacer(`\`, `\\`, "'", `\'`)
)

func (ClickHouse) QuoteIdentifier(name string) string {
	return "`" + chIdentEscaper.Replace(name) + "`"
}

// QuoteStringLiteral escapes backslashes and single quotes with a backslash,
// which is the only escaping form ClickHouse accepts in every context.
func (ClickHouse) QuoteStringLiteral(s string) string {
	return "'" + chStringEscaper.Replace(s) + "'"
}
