package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"localize-gen/internal/textutil"
)

// DefaultSize is the number of entries a stage cache keeps.
const DefaultSize = 1024

// StageCache memoizes the immutable output of a pipeline stage, keyed by a
// content hash. It is safe for concurrent use.
type StageCache[V any] struct {
	stage  string
	lru    *lru.Cache[string, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache for stage holding at most size entries.
func New[V any](stage string, size int) *StageCache[V] {
	if size < 1 {
		size = DefaultSize
	}
	c, err := lru.New[string, V](size)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &StageCache[V]{stage: stage, lru: c}
}

// Key hashes the stage name with parts.
func (c *StageCache[V]) Key(parts ...string) string {
	return textutil.Hash(append([]string{c.stage}, parts...)...)
}

// Get returns the cached value for key.
func (c *StageCache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		log.Debug().Str("stage", c.stage).Str("key", textutil.Truncate(key, 12)).Msg("Cache hit")
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores v under key.
func (c *StageCache[V]) Set(key string, v V) {
	c.lru.Add(key, v)
}

// GetOrCompute returns the cached value for key or stores the result of fn.
// hit reports whether the value came from the cache. Errors are not cached.
func (c *StageCache[V]) GetOrCompute(key string, fn func() (V, error)) (v V, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err = fn()
	if err != nil {
		return v, false, err
	}
	c.Set(key, v)
	return v, false, nil
}

// Stats returns the hit and miss counts since creation.
func (c *StageCache[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
