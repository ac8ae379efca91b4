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

package shardict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ianlewis/go-shardict/entry"
	"github.com/ianlewis/go-shardict/fetch"
	"github.com/ianlewis/go-shardict/idx"
	"github.com/ianlewis/go-shardict/internal/cache"
	"github.com/ianlewis/go-shardict/shard"
)

// IndexName is the file name of the dictionary index.
const IndexName = "index"

// ShardName returns the file name of the shard with the given number.
func ShardName(n uint32) string {
	return fmt.Sprintf("%03x", n)
}

// Options are options for loading a dictionary.
type Options struct {
	// ShardCacheSize is the maximum number of shards kept in memory. If zero
	// or negative the number of shards is not limited.
	ShardCacheSize int

	// ShardLayout is the offset table layout of the dictionary's shards.
	ShardLayout shard.Layout

	// Logger receives debug and warning messages. If nil, nothing is logged.
	Logger *log.Logger
}

// DefaultOptions is the default options for Load.
var DefaultOptions = &Options{
	ShardCacheSize: 14,
	ShardLayout:    shard.LayoutSentinel,
}

// Stats are shard cache statistics.
type Stats struct {
	// Shards is the number of shards held in memory.
	Shards int

	// Hits is the number of shard requests served from memory.
	Hits int64

	// Misses is the number of shard requests not served from memory.
	Misses int64

	// Loads is the number of shard fetches.
	Loads int64

	// Evictions is the number of shards removed from memory.
	Evictions int64
}

// Dictionary is a sharded dictionary. It is safe for concurrent use.
type Dictionary struct {
	fetcher fetch.Fetcher
	index   *idx.Idx
	shards  *cache.Cache[*shard.Shard]

	shardOpts *shard.Options
	logger    *log.Logger
}

// Load loads the dictionary index using the fetcher. Shards are fetched
// later as they are needed.
func Load(ctx context.Context, f fetch.Fetcher, opts *Options) (*Dictionary, error) {
	if opts == nil {
		opts = DefaultOptions
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b, err := f.Fetch(ctx, IndexName)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	index, err := idx.New(b)
	if err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}

	d := &Dictionary{
		fetcher: f,
		index:   index,
		shardOpts: &shard.Options{
			Layout: opts.ShardLayout,
		},
		logger: logger,
	}
	d.shards = cache.New(opts.ShardCacheSize, d.loadShard)

	logger.Debug("loaded index",
		"size", len(b),
		"shard_size", index.ShardSize(),
		"buckets", index.BucketCount(),
		"terms", index.Len(),
	)
	return d, nil
}

// loadShard fetches and parses a shard. It is the loader for the shard cache.
func (d *Dictionary) loadShard(ctx context.Context, name string) (*shard.Shard, error) {
	b, err := d.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetching shard %q: %w", name, err)
	}
	s, err := shard.New(b, d.index.ShardSize(), d.shardOpts)
	if err != nil {
		return nil, fmt.Errorf("parsing shard %q: %w", name, err)
	}
	d.logger.Debug("loaded shard", "name", name, "size", s.Size())
	return s, nil
}

// fallbacks are applied in order to a term that does not match. Each returns
// the candidate terms to try, or nil if it does not apply. The first
// candidate replaces the term for the following fallbacks.
var fallbacks = []func(string) []string{
	trimSuffix("'s"),
	trimSuffix("s"),
	removeDashes,
	trimSuffix("ly"),
	trimIng,
}

func trimSuffix(suffix string) func(string) []string {
	return func(term string) []string {
		if t, ok := strings.CutSuffix(term, suffix); ok {
			return []string{t}
		}
		return nil
	}
}

func removeDashes(term string) []string {
	if !strings.Contains(term, "-") {
		return nil
	}
	return []string{strings.ReplaceAll(term, "-", "")}
}

// trimIng removes a trailing "ing". If that leaves a doubled consonant, as in
// "running", the stem with a single consonant is tried after it.
func trimIng(term string) []string {
	stem, ok := strings.CutSuffix(term, "ing")
	if !ok {
		return nil
	}
	if n := len(stem); n >= 2 && stem[n-1] == stem[n-2] && isConsonant(stem[n-1]) {
		return []string{stem, stem[:n-1]}
	}
	return []string{stem}
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !strings.ContainsRune("aeiou", rune(c))
}

// resolve looks up term in the index. If it is not found the fallbacks are
// tried in order, each on the result of the last one that applied. The
// matching term and its ids are returned.
func (d *Dictionary) resolve(term string) (string, []uint32) {
	ids := d.index.Lookup(term)
	for _, fb := range fallbacks {
		if len(ids) > 0 {
			break
		}
		for i, c := range fb(term) {
			d.logger.Debug("trying fallback", "from", term, "to", c)
			ids = d.index.Lookup(c)
			if i == 0 || len(ids) > 0 {
				term = c
			}
			if len(ids) > 0 {
				break
			}
		}
	}
	return term, ids
}

// Query returns the entries matching term ordered by relevance. The term is
// normalized with Normalize unless normalized is true. If the term is not
// found, simple inflections such as a trailing "s", "ly", or "ing" are
// removed and the lookup is retried.
//
// If no entries match, the result holds the normalized term and no entries.
// An error is returned if any shard holding a matching entry cannot be
// loaded. Individual entries that cannot be decoded are skipped.
func (d *Dictionary) Query(ctx context.Context, term string, normalized bool) (*Result, error) {
	if !normalized {
		term = Normalize(term)
	}
	if term == "" {
		return &Result{Term: term}, nil
	}

	matched, ids := d.resolve(term)
	if len(ids) == 0 {
		return &Result{Term: term}, nil
	}

	entries, err := d.entries(ctx, ids)
	if err != nil {
		return nil, err
	}
	Rank(matched, entries)

	return &Result{
		Term:    matched,
		Entries: entries,
	}, nil
}

// Lookup returns the entries whose index term is exactly word, in index
// order. The word is not normalized and no fallbacks are tried.
func (d *Dictionary) Lookup(ctx context.Context, word string) ([]*entry.Entry, error) {
	ids := d.index.Lookup(word)
	if len(ids) == 0 {
		return nil, nil
	}
	return d.entries(ctx, ids)
}

// Autocomplete returns up to limit index terms starting with term, shortest
// first. A negative limit means no limit. The term is normalized with
// Normalize unless normalized is true.
func (d *Dictionary) Autocomplete(term string, limit int, normalized bool) []string {
	if !normalized {
		term = Normalize(term)
	}
	if term == "" {
		return nil
	}
	return d.index.LookupPrefix(term, limit)
}

// entries decodes the entries for ids. The shards holding them are loaded
// concurrently.
func (d *Dictionary) entries(ctx context.Context, ids []uint32) ([]*entry.Entry, error) {
	shardSize := d.index.ShardSize()

	var nums []uint32
	seen := map[uint32]bool{}
	for _, id := range ids {
		n := id / shardSize
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}

	loaded := make([]*shard.Shard, len(nums))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range nums {
		g.Go(func() error {
			s, err := d.shards.Get(gctx, ShardName(n))
			if err != nil {
				return err
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shards := make(map[uint32]*shard.Shard, len(nums))
	for i, n := range nums {
		shards[n] = loaded[i]
	}

	entries := make([]*entry.Entry, 0, len(ids))
	for _, id := range ids {
		e, err := shards[id/shardSize].Get(int(id % shardSize))
		if err != nil {
			if errors.Is(err, ErrIndexOutOfRange) || errors.Is(err, ErrFormat) {
				d.logger.Warn("skipping entry", "id", id, "shard", ShardName(id/shardSize), "err", err)
				continue
			}
			return nil, fmt.Errorf("entry %d: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Index returns the dictionary index.
func (d *Dictionary) Index() *idx.Idx {
	return d.index
}

// Stats returns shard cache statistics.
func (d *Dictionary) Stats() Stats {
	s := d.shards.Stats()
	return Stats{
		Shards:    d.shards.Len(),
		Hits:      s.Hits,
		Misses:    s.Misses,
		Loads:     s.Loads,
		Evictions: s.Evictions,
	}
}
