package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchCache_TTLWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current := base

	c := newSearchCache(5*time.Minute, DefaultCacheMaxEntries)
	c.now = func() time.Time { return current }

	key := searchCacheKey("github", SearchOptions{Page: 1, PageSize: 10})
	stored := SearchResult{Servers: []Server{{QualifiedName: "owner/github"}}, TotalCount: 1}
	c.set(key, stored)

	// Live within the window.
	current = base.Add(4 * time.Minute)
	got, ok := c.get(key)
	require.True(t, ok)
	require.Equal(t, stored, got)

	// At exactly the TTL boundary the entry is still live.
	current = base.Add(5 * time.Minute)
	_, ok = c.get(key)
	require.True(t, ok)

	// Past the window the entry is treated as absent.
	current = base.Add(5*time.Minute + time.Second)
	_, ok = c.get(key)
	require.False(t, ok)
}

func TestSearchCache_KeyIncludesAllParams(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name string
		a    SearchOptions
		b    SearchOptions
		same bool
	}{
		{
			name: "identical params share a key",
			a:    SearchOptions{Page: 1, PageSize: 10},
			b:    SearchOptions{Page: 1, PageSize: 10},
			same: true,
		},
		{
			name: "different page",
			a:    SearchOptions{Page: 1, PageSize: 10},
			b:    SearchOptions{Page: 2, PageSize: 10},
		},
		{
			name: "different page size",
			a:    SearchOptions{Page: 1, PageSize: 10},
			b:    SearchOptions{Page: 1, PageSize: 20},
		},
		{
			name: "different owner",
			a:    SearchOptions{Page: 1, PageSize: 10, Owner: "alice"},
			b:    SearchOptions{Page: 1, PageSize: 10, Owner: "bob"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			keyA := searchCacheKey("query", tt.a)
			keyB := searchCacheKey("query", tt.b)
			if tt.same {
				require.Equal(t, keyA, keyB)
			} else {
				require.NotEqual(t, keyA, keyB)
			}
		})
	}
}

func TestSearchCache_LRUEviction(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current := base

	c := newSearchCache(time.Hour, 3)
	c.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		current = current.Add(time.Second)
		c.set(fmt.Sprintf("key-%d", i), SearchResult{TotalCount: i})
	}
	require.Equal(t, 3, c.len())

	// Touch key-0 so key-1 becomes the least recently used.
	current = current.Add(time.Second)
	_, ok := c.get("key-0")
	require.True(t, ok)

	current = current.Add(time.Second)
	c.set("key-3", SearchResult{TotalCount: 3})

	require.Equal(t, 3, c.len())
	_, ok = c.get("key-1")
	require.False(t, ok)
	_, ok = c.get("key-0")
	require.True(t, ok)
	_, ok = c.get("key-3")
	require.True(t, ok)
}

func TestSearchCache_SetOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	c := newSearchCache(time.Hour, 2)

	key := searchCacheKey("redis", SearchOptions{Page: 1, PageSize: 10})
	c.set(key, SearchResult{TotalCount: 1})
	c.set(key, SearchResult{TotalCount: 2})

	require.Equal(t, 1, c.len())

	got, ok := c.get(key)
	require.True(t, ok)
	require.Equal(t, 2, got.TotalCount)
}
