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

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// counter is a loader which counts calls per key.
type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *counter) load(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[key]++
	return "value-" + key, nil
}

func (c *counter) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

func TestCache_singleFlight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	release := make(chan struct{})
	c := New(0, func(_ context.Context, key string) (string, error) {
		calls.Add(1)
		<-release
		return "value-" + key, nil
	})

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "k")
		}()
	}
	close(release)
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Get: %v", errs[i])
		}
		if diff := cmp.Diff("value-k", results[i]); diff != "" {
			t.Fatalf("Get (-want, +got):\n%s", diff)
		}
	}
	if diff := cmp.Diff(int64(1), calls.Load()); diff != "" {
		t.Fatalf("loader calls (-want, +got):\n%s", diff)
	}
}

func TestCache_lru(t *testing.T) {
	t.Parallel()

	var l counter
	c := New(2, l.load)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "a", "c"} {
		if _, err := c.Get(ctx, k); err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
	}

	// "b" is the least recently used since "a" was requested again.
	if diff := cmp.Diff([]string{"c", "a"}, c.Keys()); diff != "" {
		t.Fatalf("Keys (-want, +got):\n%s", diff)
	}

	if _, err := c.Get(ctx, "b"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(2, l.count("b")); diff != "" {
		t.Fatalf("loader calls for b (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, l.count("a")); diff != "" {
		t.Fatalf("loader calls for a (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c"}, c.Keys()); diff != "" {
		t.Fatalf("Keys (-want, +got):\n%s", diff)
	}

	want := Stats{
		Hits:      1,
		Misses:    4,
		Loads:     4,
		Evictions: 2,
	}
	if diff := cmp.Diff(want, c.Stats()); diff != "" {
		t.Fatalf("Stats (-want, +got):\n%s", diff)
	}
}

func TestCache_unbounded(t *testing.T) {
	t.Parallel()

	var l counter
	c := New(0, l.load)
	for _, k := range []string{"a", "b", "c", "d"} {
		if _, err := c.Get(context.Background(), k); err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
	}
	if diff := cmp.Diff(4, c.Len()); diff != "" {
		t.Fatalf("Len (-want, +got):\n%s", diff)
	}
}

func TestCache_errorNotCached(t *testing.T) {
	t.Parallel()

	errLoad := errors.New("load failed")
	var calls atomic.Int64
	c := New(0, func(_ context.Context, key string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errLoad
		}
		return "value-" + key, nil
	})

	_, err := c.Get(context.Background(), "k")
	if diff := cmp.Diff(errLoad, err, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("Get (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(0, c.Len()); diff != "" {
		t.Fatalf("Len (-want, +got):\n%s", diff)
	}

	v, err := c.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff("value-k", v); diff != "" {
		t.Fatalf("Get (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(2), calls.Load()); diff != "" {
		t.Fatalf("loader calls (-want, +got):\n%s", diff)
	}
}

func TestCache_abandon(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int64
	c := New(0, func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		// The loader's context is not canceled with the caller's.
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "value-" + key, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k")
		done <- err
	}()

	<-started
	cancel()
	if diff := cmp.Diff(context.Canceled, <-done, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("Get (-want, +got):\n%s", diff)
	}
	close(release)

	v, err := c.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff("value-k", v); diff != "" {
		t.Fatalf("Get (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(1), calls.Load()); diff != "" {
		t.Fatalf("loader calls (-want, +got):\n%s", diff)
	}
}
