package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCacheGetOrScan(t *testing.T) {
	c := NewTemplateCache(8)

	_, ok := c.Get("SELECT ?")
	assert.False(t, ok)

	first := c.GetOrScan("SELECT ?")
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Positional)

	second := c.GetOrScan("SELECT ?")
	assert.Same(t, first, second)

	got, ok := c.Get("SELECT ?")
	require.True(t, ok)
	assert.Same(t, first, got)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestTemplateCacheEviction(t *testing.T) {
	c := NewTemplateCache(2)
	c.GetOrScan("SELECT 1")
	c.GetOrScan("SELECT 2")
	c.GetOrScan("SELECT 3")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("SELECT 1")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestTemplateCacheConcurrent(t *testing.T) {
	c := NewTemplateCache(0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tpl := c.GetOrScan("SELECT :a, :b")
			assert.Equal(t, []string{"a", "b"}, tpl.Names())
		}()
	}
	wg.Wait()

	hits, misses := c.Stats()
	assert.Equal(t, uint64(16), hits+misses)
	assert.Equal(t, uint64(1), misses)
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}
