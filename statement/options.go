package statement

import (
	"log/slog"

	"github.com/Konsultn-Engineering/chstmt/cache"
)

type Option func(*Statement)

// WithLogger sets the logger used for rewrite and dispatch records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Statement) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache sets the template cache. By default statements share
// cache.Shared().
func WithCache(c *cache.TemplateCache) Option {
	return func(s *Statement) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithReadPrefixes adds leading keywords that select the read path, on top
// of DefaultReadPrefixes. Use it for statements such as WITH or EXPLAIN that
// the default prefix check sends to the write path.
func WithReadPrefixes(prefixes ...string) Option {
	return func(s *Statement) {
		s.readPrefixes = append(s.readPrefixes, prefixes...)
	}
}
