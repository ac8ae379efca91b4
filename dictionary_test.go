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

package shardict_test

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-shardict"
	"github.com/ianlewis/go-shardict/entry"
	"github.com/ianlewis/go-shardict/fetch"
	"github.com/ianlewis/go-shardict/internal/testutil"
	"github.com/ianlewis/go-shardict/shard"
)

// word returns a test entry named name. The entry is indexed under terms, or
// under the normalized name if no terms are given.
func word(name string, terms ...string) testutil.Entry {
	if len(terms) == 0 {
		terms = []string{shardict.Normalize(name)}
	}
	return testutil.Entry{
		Terms: terms,
		Entry: &entry.Entry{
			Name: name,
			MeaningGroups: []entry.MeaningGroup{
				{
					Info: []string{"noun"},
					Meanings: []entry.Meaning{
						{Text: "a meaning of " + name},
					},
				},
			},
		},
	}
}

func names(entries []*entry.Entry) []string {
	var n []string
	for _, e := range entries {
		n = append(n, e.Name)
	}
	return n
}

func load(t *testing.T, f fetch.Fetcher, opts *shardict.Options) *shardict.Dictionary {
	t.Helper()

	d, err := shardict.Load(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return d
}

func TestLoad(t *testing.T) {
	t.Parallel()

	files := testutil.MakeDict([]testutil.Entry{word("cat")}, &testutil.MakeDictOptions{ShardSize: 4})

	tests := []struct {
		name  string
		files map[string][]byte
		err   error
	}{
		{
			name:  "ok",
			files: files,
		},
		{
			name:  "missing index",
			files: map[string][]byte{"000": files["000"]},
			err:   shardict.ErrNotFound,
		},
		{
			name:  "bad index",
			files: map[string][]byte{"index": {0, 0, 0, 4, 0, 0}},
			err:   shardict.ErrFormat,
		},
		{
			name:  "zero shard size",
			files: map[string][]byte{"index": testutil.MakeIndex(0, nil)},
			err:   shardict.ErrFormat,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			d, err := shardict.Load(context.Background(), &testutil.MapFetcher{Files: test.files}, nil)
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Load (-want, +got):\n%s", diff)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(uint32(4), d.Index().ShardSize()); diff != "" {
				t.Errorf("ShardSize (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDictionary_Query_fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		terms []string
		query string

		expectedTerm  string
		expectedNames []string
	}{
		{
			name:          "direct",
			terms:         []string{"running", "run"},
			query:         "running",
			expectedTerm:  "running",
			expectedNames: []string{"running"},
		},
		{
			name:          "normalized",
			terms:         []string{"running"},
			query:         "  RUNNING ",
			expectedTerm:  "running",
			expectedNames: []string{"running"},
		},
		{
			name:          "ing doubled consonant",
			terms:         []string{"run"},
			query:         "running",
			expectedTerm:  "run",
			expectedNames: []string{"run"},
		},
		{
			name:          "ing",
			terms:         []string{"walk"},
			query:         "walking",
			expectedTerm:  "walk",
			expectedNames: []string{"walk"},
		},
		{
			name:          "ing double letter stem",
			terms:         []string{"fall"},
			query:         "falling",
			expectedTerm:  "fall",
			expectedNames: []string{"fall"},
		},
		{
			name:          "possessive",
			terms:         []string{"cat"},
			query:         "cat's",
			expectedTerm:  "cat",
			expectedNames: []string{"cat"},
		},
		{
			name:          "plural",
			terms:         []string{"cat"},
			query:         "Cats",
			expectedTerm:  "cat",
			expectedNames: []string{"cat"},
		},
		{
			name:          "dashes",
			terms:         []string{"wellknown"},
			query:         "well-known",
			expectedTerm:  "wellknown",
			expectedNames: []string{"wellknown"},
		},
		{
			name:          "ly",
			terms:         []string{"quick"},
			query:         "quickly",
			expectedTerm:  "quick",
			expectedNames: []string{"quick"},
		},
		{
			name:          "cumulative",
			terms:         []string{"run"},
			query:         "runnings",
			expectedTerm:  "run",
			expectedNames: []string{"run"},
		},
		{
			name:         "miss",
			terms:        []string{"cat"},
			query:        "Dogs",
			expectedTerm: "dogs",
		},
		{
			name:         "empty",
			terms:        []string{"cat"},
			query:        "?!",
			expectedTerm: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var entries []testutil.Entry
			for _, term := range test.terms {
				entries = append(entries, word(term))
			}
			f := &testutil.MapFetcher{Files: testutil.MakeDict(entries, nil)}
			d := load(t, f, nil)

			r, err := d.Query(context.Background(), test.query, false)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if diff := cmp.Diff(test.expectedTerm, r.Term); diff != "" {
				t.Errorf("Term (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.expectedNames, names(r.Entries)); diff != "" {
				t.Errorf("Entries (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDictionary_Query_normalized(t *testing.T) {
	t.Parallel()

	f := &testutil.MapFetcher{Files: testutil.MakeDict([]testutil.Entry{word("cat")}, nil)}
	d := load(t, f, nil)

	// Already normalized terms are used as is.
	r, err := d.Query(context.Background(), "Cat", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if diff := cmp.Diff("Cat", r.Term); diff != "" {
		t.Errorf("Term (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(0, len(r.Entries)); diff != "" {
		t.Errorf("Entries (-want, +got):\n%s", diff)
	}
}

func TestDictionary_Query_rank(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		word("Lead", "lead"),
		word("lead", "lead"),
	}
	f := &testutil.MapFetcher{Files: testutil.MakeDict(entries, nil)}
	d := load(t, f, nil)

	r, err := d.Query(context.Background(), "lead", false)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if diff := cmp.Diff([]string{"lead", "Lead"}, names(r.Entries)); diff != "" {
		t.Errorf("Query (-want, +got):\n%s", diff)
	}

	// Lookup returns entries in index order.
	got, err := d.Lookup(context.Background(), "lead")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if diff := cmp.Diff([]string{"Lead", "lead"}, names(got)); diff != "" {
		t.Errorf("Lookup (-want, +got):\n%s", diff)
	}
}

func TestDictionary_Lookup(t *testing.T) {
	t.Parallel()

	f := &testutil.MapFetcher{Files: testutil.MakeDict([]testutil.Entry{word("cat")}, nil)}
	d := load(t, f, nil)

	tests := []struct {
		word     string
		expected []string
	}{
		{word: "cat", expected: []string{"cat"}},
		// No fallbacks.
		{word: "cats"},
		// No normalization.
		{word: "Cat"},
		{word: ""},
	}
	for _, test := range tests {
		got, err := d.Lookup(context.Background(), test.word)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", test.word, err)
		}
		if diff := cmp.Diff(test.expected, names(got)); diff != "" {
			t.Errorf("Lookup(%q) (-want, +got):\n%s", test.word, diff)
		}
	}
}

func TestDictionary_Autocomplete(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		word("cat"),
		word("Cat", "cat"),
		word("cats"),
		word("car"),
		word("dog"),
	}
	f := &testutil.MapFetcher{Files: testutil.MakeDict(entries, nil)}
	d := load(t, f, nil)

	tests := []struct {
		name       string
		term       string
		limit      int
		normalized bool
		expected   []string
	}{
		{
			name:     "prefix",
			term:     "ca",
			limit:    10,
			expected: []string{"car", "cat", "cats"},
		},
		{
			name:     "unlimited",
			term:     "ca",
			limit:    -1,
			expected: []string{"car", "cat", "cats"},
		},
		{
			name:     "limit",
			term:     "ca",
			limit:    2,
			expected: []string{"car", "cat"},
		},
		{
			name:  "zero limit",
			term:  "ca",
			limit: 0,
		},
		{
			name:     "whole word",
			term:     "cat",
			limit:    -1,
			expected: []string{"cat", "cats"},
		},
		{
			name:     "normalizes",
			term:     " CA",
			limit:    -1,
			expected: []string{"car", "cat", "cats"},
		},
		{
			name:       "already normalized",
			term:       "CA",
			limit:      -1,
			normalized: true,
		},
		{
			name:  "empty",
			term:  "!",
			limit: -1,
		},
		{
			name:  "no match",
			term:  "x",
			limit: -1,
		},
		{
			name:  "too long",
			term:  "category",
			limit: -1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := d.Autocomplete(test.term, test.limit, test.normalized)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Autocomplete (-want, +got):\n%s", diff)
			}

			// Only the index is ever fetched.
			if diff := cmp.Diff(1, f.Total()); diff != "" {
				t.Errorf("fetches (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestDictionary_shards tests that entry ids are resolved to the correct
// shard and slot.
func TestDictionary_shards(t *testing.T) {
	t.Parallel()

	var entries []testutil.Entry
	for i := range 10 {
		entries = append(entries, word(fmt.Sprintf("w%d", i)))
	}
	files := testutil.MakeDict(entries, &testutil.MakeDictOptions{ShardSize: 3})
	f := &testutil.MapFetcher{Files: files}
	d := load(t, f, nil)

	var ids []uint32
	if err := d.Index().Walk(func(term string, id uint32) error {
		ids = append(ids, id)
		shardSize := d.Index().ShardSize()
		if diff := cmp.Diff(fmt.Sprintf("w%d", id), term); diff != "" {
			t.Errorf("term for id %d (-want, +got):\n%s", id, diff)
		}
		if got := id/shardSize*shardSize + id%shardSize; got != id {
			t.Errorf("id %d: shard %d slot %d", id, id/shardSize, id%shardSize)
		}

		got, err := d.Lookup(context.Background(), term)
		if err != nil {
			return err
		}
		if diff := cmp.Diff([]string{term}, names(got)); diff != "" {
			t.Errorf("Lookup(%q) (-want, +got):\n%s", term, diff)
		}
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if diff := cmp.Diff(10, len(ids)); diff != "" {
		t.Errorf("ids (-want, +got):\n%s", diff)
	}
	for _, name := range []string{"000", "001", "002", "003"} {
		if diff := cmp.Diff(1, f.Count(name)); diff != "" {
			t.Errorf("fetches of %q (-want, +got):\n%s", name, diff)
		}
	}
}

// TestDictionary_roundTrip tests that dictionaries written to disk in each
// supported format read back the same terms and entries.
func TestDictionary_roundTrip(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		word("cat", "cat", "cats"),
		word("Cat", "cat"),
		word("dog"),
		word("well-known", "well-known", "wellknown"),
		word("a"),
		{
			Terms: []string{"lead"},
			Entry: &entry.Entry{
				Name:          "lead",
				Pronunciation: "/liːd/",
				MeaningGroups: []entry.MeaningGroup{
					{
						Info:         []string{"verb", "led"},
						WordVariants: []string{"lead", "leads", "led"},
						Meanings: []entry.Meaning{
							{
								Tags:     []string{"transitive"},
								Text:     "To guide or conduct.",
								Examples: []string{"She led the way."},
							},
						},
					},
				},
				Info:   "From Old English lǣdan.",
				Source: "Test Dictionary",
			},
		},
	}

	want := map[string][]*entry.Entry{}
	for _, e := range entries {
		for _, term := range e.Terms {
			want[term] = append(want[term], e.Entry)
		}
	}

	for _, layout := range []shard.Layout{shard.LayoutSentinel, shard.LayoutImplicit} {
		for _, c := range []testutil.Compression{testutil.None, testutil.DictZip, testutil.Gzip} {
			t.Run(fmt.Sprintf("%v-%d", layout, c), func(t *testing.T) {
				t.Parallel()

				files := testutil.MakeDict(entries, &testutil.MakeDictOptions{
					ShardSize: 4,
					Layout:    layout,
				})
				dir := testutil.MakeDir(t, files, c)
				d := load(t, fetch.NewDir(dir), &shardict.Options{
					ShardCacheSize: 1,
					ShardLayout:    layout,
				})

				got := map[string][]*entry.Entry{}
				if err := d.Index().Walk(func(term string, _ uint32) error {
					if _, ok := got[term]; ok {
						return nil
					}
					e, err := d.Lookup(context.Background(), term)
					if err != nil {
						return err
					}
					got[term] = e
					return nil
				}); err != nil {
					t.Fatalf("Walk: %v", err)
				}

				if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("round trip (-want, +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDictionary_Query_shardError(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{
		word("a", "a", "x"),
		word("b"),
		word("c", "c", "x"),
	}
	files := testutil.MakeDict(entries, &testutil.MakeDictOptions{ShardSize: 2})

	tests := []struct {
		name  string
		query string
		fetch *testutil.MapFetcher
		err   error
	}{
		{
			name:  "ok",
			query: "a",
			fetch: &testutil.MapFetcher{
				Files: files,
				Err:   map[string]error{"001": fmt.Errorf("%w: boom", fetch.ErrIO)},
			},
		},
		{
			name:  "io error",
			query: "c",
			fetch: &testutil.MapFetcher{
				Files: files,
				Err:   map[string]error{"001": fmt.Errorf("%w: boom", fetch.ErrIO)},
			},
			err: shardict.ErrIO,
		},
		{
			name:  "one of several shards",
			query: "x",
			fetch: &testutil.MapFetcher{
				Files: files,
				Err:   map[string]error{"001": fmt.Errorf("%w: boom", fetch.ErrIO)},
			},
			err: shardict.ErrIO,
		},
		{
			name:  "missing shard",
			query: "x",
			fetch: &testutil.MapFetcher{
				Files: map[string][]byte{
					"index": files["index"],
					"000":   files["000"],
				},
			},
			err: shardict.ErrNotFound,
		},
		{
			name:  "corrupt shard",
			query: "c",
			fetch: &testutil.MapFetcher{
				Files: map[string][]byte{
					"index": files["index"],
					"000":   files["000"],
					"001":   {0, 0},
				},
			},
			err: shardict.ErrFormat,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			d := load(t, test.fetch, nil)
			r, err := d.Query(context.Background(), test.query, false)
			if diff := cmp.Diff(test.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Query (-want, +got):\n%s", diff)
			}
			if err != nil && r != nil {
				t.Errorf("Query: got result %v with error", r)
			}
		})
	}
}

func TestDictionary_Query_shardErrorNotCached(t *testing.T) {
	t.Parallel()

	files := testutil.MakeDict([]testutil.Entry{word("cat")}, nil)
	f := &testutil.MapFetcher{
		Files: files,
		Err:   map[string]error{"000": fmt.Errorf("%w: boom", fetch.ErrIO)},
	}
	d := load(t, f, nil)

	// Failed fetches are retried by later queries.
	for range 2 {
		if _, err := d.Query(context.Background(), "cat", false); err == nil {
			t.Fatalf("Query: expected error")
		}
	}
	if diff := cmp.Diff(2, f.Count("000")); diff != "" {
		t.Errorf("fetches (-want, +got):\n%s", diff)
	}
}

// TestDictionary_Query_badEntries tests that entries which cannot be decoded
// are skipped.
func TestDictionary_Query_badEntries(t *testing.T) {
	t.Parallel()

	good := entry.Append(nil, word("cat").Entry)

	// Slot 0 holds a good entry, slot 1 a truncated record, slot 2 is empty.
	var b []byte
	for _, off := range []int{16, 16 + len(good), 16 + len(good) + 2, 16 + len(good) + 2} {
		//nolint:gosec // test code
		b = binary.BigEndian.AppendUint32(b, uint32(off))
	}
	b = append(b, good...)
	b = append(b, 0, 0)

	files := map[string][]byte{
		"index": testutil.MakeIndex(3, []testutil.Term{
			{Term: "cat", ID: 0},
			{Term: "cat", ID: 1},
			{Term: "cat", ID: 2},
		}),
		"000": b,
	}
	d := load(t, &testutil.MapFetcher{Files: files}, nil)

	r, err := d.Query(context.Background(), "cat", false)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if diff := cmp.Diff([]string{"cat"}, names(r.Entries)); diff != "" {
		t.Errorf("Query (-want, +got):\n%s", diff)
	}
}

func TestDictionary_Query_singleFlight(t *testing.T) {
	t.Parallel()

	var entries []testutil.Entry
	for i := range 8 {
		entries = append(entries, word(fmt.Sprintf("w%d", i), fmt.Sprintf("w%d", i), "all"))
	}
	f := &testutil.MapFetcher{Files: testutil.MakeDict(entries, &testutil.MakeDictOptions{ShardSize: 4})}
	d := load(t, f, nil)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := d.Query(context.Background(), "all", false)
			if err == nil && len(r.Entries) != 8 {
				err = fmt.Errorf("got %d entries", len(r.Entries))
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
	}
	for _, name := range []string{"000", "001"} {
		if diff := cmp.Diff(1, f.Count(name)); diff != "" {
			t.Errorf("fetches of %q (-want, +got):\n%s", name, diff)
		}
	}
}

func TestDictionary_Stats(t *testing.T) {
	t.Parallel()

	entries := []testutil.Entry{word("a"), word("b")}
	f := &testutil.MapFetcher{Files: testutil.MakeDict(entries, &testutil.MakeDictOptions{ShardSize: 1})}
	d := load(t, f, &shardict.Options{ShardCacheSize: 1})

	for _, q := range []string{"a", "b", "a", "a"} {
		if _, err := d.Query(context.Background(), q, false); err != nil {
			t.Fatalf("Query(%q): %v", q, err)
		}
	}

	want := shardict.Stats{
		Shards:    1,
		Hits:      1,
		Misses:    3,
		Loads:     3,
		Evictions: 2,
	}
	if diff := cmp.Diff(want, d.Stats()); diff != "" {
		t.Errorf("Stats (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(2, f.Count("000")); diff != "" {
		t.Errorf("fetches (-want, +got):\n%s", diff)
	}
}
