package connector

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DSNBuilder assembles URL-style connection strings. Empty parameter
// values are dropped so optional config fields can be passed unconditionally.
type DSNBuilder struct {
	u      url.URL
	port   int
	params url.Values
}

func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{u: url.URL{Scheme: scheme}, params: url.Values{}}
}

func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	switch {
	case username == "":
		b.u.User = nil
	case password == "":
		b.u.User = url.User(username)
	default:
		b.u.User = url.UserPassword(username, password)
	}
	return b
}

func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.port = port
	b.u.Host = host
	if port > 0 {
		b.u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	}
	return b
}

func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.u.Path = ""
	if name != "" {
		b.u.Path = "/" + name
	}
	return b
}

// Param sets key, replacing any earlier value. Later calls win, so
// defaults go first and caller overrides last.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params.Set(key, value)
	}
	return b
}

func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

// WithPostgresDefaults applies the libpq parameters every postgres-wire
// connection starts from.
func (b *DSNBuilder) WithPostgresDefaults() *DSNBuilder {
	return b.Param("sslmode", "prefer").Param("connect_timeout", "10")
}

func (b *DSNBuilder) Validate() error {
	if b.u.Hostname() == "" {
		return fmt.Errorf("host is required")
	}
	if b.port <= 0 || b.port > 65535 {
		return fmt.Errorf("invalid port: %d", b.port)
	}
	return nil
}

// Build renders the DSN with parameters in sorted order.
func (b *DSNBuilder) Build() string {
	u := b.u
	u.RawQuery = b.params.Encode()
	return u.String()
}

// RedactDSN masks the password of a URL-style or driver-style DSN for
// logging. Strings it cannot parse are reduced to their scheme.
func RedactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Redacted()
	}
	// user:pass@tcp(host)/db as produced by go-sql-driver/mysql
	if at := strings.LastIndex(dsn, "@"); at > 0 {
		creds := dsn[:at]
		if colon := strings.Index(creds, ":"); colon >= 0 {
			return creds[:colon] + ":xxxxx" + dsn[at:]
		}
		return dsn
	}
	if i := strings.Index(dsn, "://"); i > 0 {
		return dsn[:i] + "://..."
	}
	return dsn
}
