// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache implements a memoizing LRU cache whose values are produced by
// a loader. Concurrent requests for the same key share a single call to the
// loader.
package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a key.
type LoadFunc[V any] func(ctx context.Context, key string) (V, error)

// Stats are cache counters.
type Stats struct {
	// Hits is the number of requests served from the cache.
	Hits int64

	// Misses is the number of requests not served from the cache. Misses
	// joining an in-flight load are counted but do not call the loader.
	Misses int64

	// Loads is the number of calls to the loader.
	Loads int64

	// Evictions is the number of values removed to stay within the maximum
	// size.
	Evictions int64
}

type item[V any] struct {
	key   string
	value V
}

// Cache is a single-flight LRU cache. Successful loads are retained until the
// cache grows past its maximum size, at which point the least recently used
// value is evicted. Failed loads are not retained. Cache is safe for
// concurrent use.
type Cache[V any] struct {
	load  LoadFunc[V]
	max   int
	group singleflight.Group

	mu sync.Mutex
	// items holds the values, most recently used at the front.
	items map[string]*list.Element
	lru   *list.List

	hits      atomic.Int64
	misses    atomic.Int64
	loads     atomic.Int64
	evictions atomic.Int64
}

// New creates a new cache holding at most max values. If max <= 0 then the
// cache is unbounded.
func New[V any](max int, load LoadFunc[V]) *Cache[V] {
	return &Cache[V]{
		load:  load,
		max:   max,
		items: make(map[string]*list.Element),
		lru:   list.New(),
	}
}

// Get returns the value for key, calling the loader if the value is not
// cached. Callers requesting a key whose load is already in flight wait for
// that load and receive its result.
//
// If ctx is done before the load completes, Get returns ctx.Err(). The load
// itself is not canceled: it runs to completion and its value is cached for
// later callers.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := c.get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	ch := c.group.DoChan(key, func() (any, error) {
		// The value may have been added between the lookup above and
		// joining the group.
		if v, ok := c.get(key); ok {
			return v, nil
		}

		c.loads.Add(1)
		v, err := c.load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		c.add(key, v)
		return v, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			var zero V
			return zero, r.Err
		}
		v, _ := r.Val.(V)
		c.touch(key)
		return v, nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// get returns the cached value for key and marks it most recently used.
func (c *Cache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.lru.MoveToFront(e)
		return e.Value.(*item[V]).value, true
	}
	var zero V
	return zero, false
}

// touch marks key most recently used if it is still cached.
func (c *Cache[V]) touch(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.lru.MoveToFront(e)
	}
}

// add inserts the value as most recently used and evicts least recently used
// values while the cache is over its maximum size.
func (c *Cache[V]) add(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.Value.(*item[V]).value = v
		c.lru.MoveToFront(e)
		return
	}

	c.items[key] = c.lru.PushFront(&item[V]{key: key, value: v})
	for c.max > 0 && c.lru.Len() > c.max {
		e := c.lru.Back()
		c.lru.Remove(e)
		delete(c.items, e.Value.(*item[V]).key)
		c.evictions.Add(1)
	}
}

// Len returns the number of cached values.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys returns the cached keys, most recently used first.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.lru.Len())
	for e := c.lru.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*item[V]).key)
	}
	return keys
}

// Stats returns the cache counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Loads:     c.loads.Load(),
		Evictions: c.evictions.Load(),
	}
}
