// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testutil

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/go-shardict/entry"
	"github.com/ianlewis/go-shardict/fetch"
	"github.com/ianlewis/go-shardict/shard"
)

// Entry is a test dictionary entry along with the normalized terms which
// should find it.
type Entry struct {
	Terms []string
	Entry *entry.Entry
}

// MakeDictOptions are options for MakeDict.
type MakeDictOptions struct {
	// ShardSize is the number of entries per shard. Defaults to 512.
	ShardSize uint32

	// Layout is the shard offset table layout.
	Layout shard.Layout
}

func (o *MakeDictOptions) getShardSize() uint32 {
	if o == nil || o.ShardSize == 0 {
		return 512
	}
	return o.ShardSize
}

func (o *MakeDictOptions) getLayout() shard.Layout {
	if o == nil {
		return shard.LayoutSentinel
	}
	return o.Layout
}

// MakeDict builds the index and shard files for a test dictionary. Entry ids
// are assigned in order. Files are returned keyed by name.
func MakeDict(entries []Entry, opts *MakeDictOptions) map[string][]byte {
	shardSize := opts.getShardSize()

	var terms []Term
	for i, e := range entries {
		ts := slices.Clone(e.Terms)
		slices.Sort(ts)
		for _, t := range slices.Compact(ts) {
			if t == "" {
				continue
			}
			//nolint:gosec // test code
			terms = append(terms, Term{Term: t, ID: uint32(i)})
		}
	}

	files := map[string][]byte{
		"index": MakeIndex(shardSize, terms),
	}
	for start := 0; start < len(entries); start += int(shardSize) {
		var records []*entry.Entry
		for _, e := range entries[start:min(start+int(shardSize), len(entries))] {
			records = append(records, e.Entry)
		}
		files[fmt.Sprintf("%03x", start/int(shardSize))] = MakeShard(records, shardSize, opts.getLayout())
	}
	return files
}

// MakeShard makes a test shard file. Slots after the last entry are left
// empty.
func MakeShard(entries []*entry.Entry, shardSize uint32, layout shard.Layout) []byte {
	n := int(shardSize)
	if layout == shard.LayoutSentinel {
		n++
	}

	var data []byte
	offsets := make([]uint32, n)
	//nolint:gosec // test code
	start := uint32(4 * n)
	for i := range offsets {
		//nolint:gosec // test code
		offsets[i] = start + uint32(len(data))
		if i < len(entries) {
			data = entry.Append(data, entries[i])
		}
	}

	b := make([]byte, 0, 4*n+len(data))
	for _, off := range offsets {
		b = binary.BigEndian.AppendUint32(b, off)
	}
	return append(b, data...)
}

// Compression is the compression applied to files written by MakeDir.
type Compression int

const (
	// None writes files as is.
	None Compression = iota

	// DictZip writes files with the dictzip format and a .dz extension.
	DictZip

	// Gzip writes files with gzip and a .gz extension.
	Gzip
)

// MakeDir writes files to a new temporary directory and returns its path.
func MakeDir(t *testing.T, files map[string][]byte, c Compression) string {
	t.Helper()

	dir := t.TempDir()
	for name, b := range files {
		var ext string
		switch c {
		case DictZip:
			ext = ".dz"
		case Gzip:
			ext = ".gz"
		}

		f, err := os.Create(filepath.Join(dir, name+ext))
		if err != nil {
			t.Fatal(err)
		}

		switch c {
		case DictZip:
			z, err := dictzip.NewWriter(f)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := z.Write(b); err != nil {
				t.Fatal(err)
			}
			if err := z.Close(); err != nil {
				t.Fatal(err)
			}
		case Gzip:
			z := gzip.NewWriter(f)
			if _, err := z.Write(b); err != nil {
				t.Fatal(err)
			}
			if err := z.Close(); err != nil {
				t.Fatal(err)
			}
		default:
			if _, err := f.Write(b); err != nil {
				t.Fatal(err)
			}
		}

		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// MapFetcher serves files from memory and counts fetches by name.
type MapFetcher struct {
	Files map[string][]byte

	// Err, if set, is returned for every fetch of the named files.
	Err map[string]error

	mu     sync.Mutex
	counts map[string]int
	total  atomic.Int64
}

// Fetch implements [fetch.Fetcher.Fetch].
func (m *MapFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name]++
	m.mu.Unlock()
	m.total.Add(1)

	if err := m.Err[name]; err != nil {
		return nil, err
	}
	b, ok := m.Files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fetch.ErrNotFound, name)
	}
	return b, nil
}

// Count returns the number of times name was fetched.
func (m *MapFetcher) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

// Total returns the total number of fetches.
func (m *MapFetcher) Total() int {
	return int(m.total.Load())
}
