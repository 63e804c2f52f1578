package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/hybridshare/pkg/cache"
)

func TestLRUCache_Basic(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		c := cache.NewLRUCache[string, int](3)

		c.Put("a", 1, 0)
		c.Put("b", 2, 0)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get non-existent", func(t *testing.T) {
		c := cache.NewLRUCache[string, int](3)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
	})

	t.Run("update existing", func(t *testing.T) {
		c := cache.NewLRUCache[string, int](3)

		c.Put("a", 1, 0)
		c.Put("a", 2, 0)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})
}

func TestLRUCache_Eviction(t *testing.T) {
	c := cache.NewLRUCache[string, int](2)

	var evicted []string
	c.SetEvictCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	c.Put("a", 1, 0)
	c.Put("b", 2, 0)
	_, _ = c.Get("a") // b is now least recently used
	c.Put("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRUCache_Expiry(t *testing.T) {
	c := cache.NewLRUCache[string, int](4)

	c.Put("short", 1, 20*time.Millisecond)
	c.Put("forever", 2, 0)

	_, ok := c.Get("short")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, ok = c.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	c := cache.NewLRUCache[string, int](3)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := cache.NewLRUCache[string, int](50)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (n*100+j)%80)
				c.Put(key, j, time.Minute)
				_, _ = c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
