package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/chstmt/scanner"
	"github.com/Konsultn-Engineering/chstmt/utils"
)

const DefaultSize = 512

// TemplateCache keeps tokenized SQL templates keyed by the fingerprint of
// their text. It is safe for concurrent use.
type TemplateCache struct {
	cache  *lru.Cache[uint64, *scanner.Template]
	mu     sync.RWMutex
	hits   uint64
	misses uint64
}

func NewTemplateCache(size int) *TemplateCache {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.New[uint64, *scanner.Template](size)

	return &TemplateCache{
		cache: cache,
	}
}

// Get returns the cached template for sql, if any. A fingerprint collision
// with different text is treated as a miss.
func (s *TemplateCache) Get(sql string) (*scanner.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if tpl, ok := s.cache.Get(utils.FingerprintString(sql)); ok && tpl.SQL == sql {
		return tpl, true
	}
	return nil, false
}

// GetOrScan returns the cached template for sql, tokenizing and caching it
// on a miss.
func (s *TemplateCache) GetOrScan(sql string) *scanner.Template {
	key := utils.FingerprintString(sql)

	// Fast path: try to get from cache with read lock
	s.mu.RLock()
	if tpl, ok := s.cache.Get(key); ok && tpl.SQL == sql {
		s.mu.RUnlock()
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		return tpl
	}
	s.mu.RUnlock()

	// Slow path: scan and cache with write lock
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if tpl, ok := s.cache.Get(key); ok && tpl.SQL == sql {
		s.hits++
		return tpl
	}

	tpl := scanner.Scan(sql)
	s.cache.Add(key, tpl)
	s.misses++
	return tpl
}

// Stats reports lookups served from the cache and lookups that scanned.
func (s *TemplateCache) Stats() (hits, misses uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

func (s *TemplateCache) Len() int {
	return s.cache.Len()
}

func (s *TemplateCache) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	s.hits, s.misses = 0, 0
}

var (
	sharedOnce sync.Once
	shared     *TemplateCache
)

// Shared returns the process-wide template cache used by statements that
// were not given their own.
func Shared() *TemplateCache {
	sharedOnce.Do(func() {
		shared = NewTemplateCache(DefaultSize)
	})
	return shared
}
