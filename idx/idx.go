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

package idx

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ianlewis/go-shardict/internal/cursor"
	"github.com/ianlewis/go-shardict/internal/index"
)

// ErrFormat indicates that the index data is malformed.
var ErrFormat = cursor.ErrFormat

var errZeroShardSize = errors.New("zero shard size")

// bucket is the table of all terms of a single length.
type bucket struct {
	// width is the byte length of each term.
	width int

	// count is the number of slots.
	count int

	// terms holds count*width bytes of sorted terms.
	terms []byte

	// ids holds count big-endian entry ids.
	ids []byte
}

func (b *bucket) term(i int) []byte {
	return b.terms[i*b.width : (i+1)*b.width]
}

func (b *bucket) id(i int) uint32 {
	return binary.BigEndian.Uint32(b.ids[i*4:])
}

// search returns the inclusive range of slots whose first len(query) bytes
// equal query.
func (b *bucket) search(query []byte) (int, int, bool) {
	n := len(query)
	return index.SearchRange(b.count, func(i int) int {
		t := b.terms[i*b.width : i*b.width+n]
		for c := range n {
			switch {
			case query[c] < t[c]:
				return -1
			case query[c] > t[c]:
				return 1
			}
		}
		return 0
	})
}

// Idx is an in-memory term index. It is immutable after creation and safe
// for concurrent use.
type Idx struct {
	shardSize uint32
	buckets   []bucket
}

// New parses the index data in b. The returned Idx references b, which must
// not be modified afterwards.
func New(b []byte) (*Idx, error) {
	c := cursor.New(b)

	shardSize, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("reading shard size: %w", err)
	}
	if shardSize == 0 {
		return nil, fmt.Errorf("%w: %w", ErrFormat, errZeroShardSize)
	}

	bucketCount, err := c.Len(4)
	if err != nil {
		return nil, fmt.Errorf("reading bucket count: %w", err)
	}

	counts, err := c.U32s(bucketCount)
	if err != nil {
		return nil, fmt.Errorf("reading bucket sizes: %w", err)
	}

	idx := &Idx{
		shardSize: shardSize,
		buckets:   make([]bucket, bucketCount),
	}
	for i, count := range counts {
		width := i + 1
		size := uint64(count) * uint64(width)
		if size > uint64(c.Remaining()) {
			return nil, fmt.Errorf("%w: bucket %d terms overrun index", ErrFormat, i)
		}
		terms, err := c.Bytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("reading bucket %d terms: %w", i, err)
		}
		idx.buckets[i] = bucket{
			width: width,
			count: int(count),
			terms: terms,
		}
	}
	for i := range idx.buckets {
		size := uint64(idx.buckets[i].count) * 4
		if size > uint64(c.Remaining()) {
			return nil, fmt.Errorf("%w: bucket %d ids overrun index", ErrFormat, i)
		}
		ids, err := c.Bytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("reading bucket %d ids: %w", i, err)
		}
		idx.buckets[i].ids = ids
	}

	if n := c.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after index", ErrFormat, n)
	}

	return idx, nil
}

// ShardSize returns the number of entries in each shard.
func (idx *Idx) ShardSize() uint32 {
	return idx.shardSize
}

// BucketCount returns the number of buckets.
func (idx *Idx) BucketCount() int {
	return len(idx.buckets)
}

// BucketLen returns the number of slots in bucket i.
func (idx *Idx) BucketLen(i int) int {
	if i < 0 || i >= len(idx.buckets) {
		return 0
	}
	return idx.buckets[i].count
}

// Len returns the total number of term slots in the index.
func (idx *Idx) Len() int {
	var n int
	for i := range idx.buckets {
		n += idx.buckets[i].count
	}
	return n
}

// Lookup returns the ids of all entries for the term. The ids are returned
// in index order. Terms with a length greater than or equal to the bucket
// count are never matched.
func (idx *Idx) Lookup(term string) []uint32 {
	n := len(term)
	if n == 0 || n >= len(idx.buckets) {
		return nil
	}

	b := &idx.buckets[n-1]
	lo, hi, found := b.search([]byte(term))
	if !found {
		return nil
	}

	ids := make([]uint32, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ids = append(ids, b.id(i))
	}
	return ids
}

// LookupPrefix returns the distinct terms starting with prefix, shortest
// first and in byte order within a length. Adjacent duplicate terms are
// returned once. At most limit terms are returned; a negative limit means no
// limit.
func (idx *Idx) LookupPrefix(prefix string, limit int) []string {
	n := len(prefix)
	if n >= len(idx.buckets) || limit == 0 {
		return nil
	}

	query := []byte(prefix)
	var words []string
	for width := max(n, 1); width <= len(idx.buckets); width++ {
		b := &idx.buckets[width-1]
		lo, hi, found := b.search(query)
		if !found {
			continue
		}

		var last []byte
		for i := lo; i <= hi; i++ {
			t := b.term(i)
			if last == nil || string(last) != string(t) {
				words = append(words, string(t))
				if len(words) == limit {
					return words
				}
			}
			last = t
		}
	}
	return words
}

// Walk calls fn for every slot in the index, shortest terms first and in
// table order within a bucket. Walk stops at the first error returned by fn.
func (idx *Idx) Walk(fn func(term string, id uint32) error) error {
	for i := range idx.buckets {
		b := &idx.buckets[i]
		for j := range b.count {
			if err := fn(string(b.term(j)), b.id(j)); err != nil {
				return err
			}
		}
	}
	return nil
}
