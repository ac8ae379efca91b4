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

// Package shard implements reading shard files.
//
// A shard holds the entry records for a contiguous range of entry ids. It
// starts with a table of big-endian u32 byte offsets, one per entry slot,
// followed by the encoded records. Offsets are relative to the start of the
// shard file. The record for slot i spans [offset[i], offset[i+1]).
//
// Two offset table layouts exist. With LayoutSentinel the table has one extra
// offset marking the end of the last record. With LayoutImplicit the last
// record ends at the end of the file.
package shard

import (
	"errors"
	"fmt"

	"github.com/ianlewis/go-shardict/entry"
	"github.com/ianlewis/go-shardict/internal/cursor"
)

var (
	// ErrFormat indicates that the shard data is malformed.
	ErrFormat = cursor.ErrFormat

	// ErrIndexOutOfRange indicates that a slot does not hold an entry.
	ErrIndexOutOfRange = errors.New("index out of range")

	errInvalidLayout = errors.New("invalid offset table layout")
)

// Layout is the offset table layout of a shard file.
type Layout int

const (
	// LayoutSentinel stores shardSize+1 offsets. The last offset is the end
	// of the last record.
	LayoutSentinel Layout = iota

	// LayoutImplicit stores shardSize offsets. The last record ends at the
	// end of the shard file.
	LayoutImplicit
)

// String implements [fmt.Stringer.String].
func (l Layout) String() string {
	switch l {
	case LayoutSentinel:
		return "sentinel"
	case LayoutImplicit:
		return "implicit"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Options are options for reading a shard.
type Options struct {
	// Layout is the offset table layout.
	Layout Layout
}

// DefaultOptions is the default options for a Shard.
var DefaultOptions = &Options{
	Layout: LayoutSentinel,
}

// Shard is a parsed shard file. It is immutable and safe for concurrent use.
type Shard struct {
	// offsets has one more element than there are slots.
	offsets []uint32
	data    []byte
}

// New parses the shard data in b holding shardSize entry slots. The returned
// Shard references b, which must not be modified afterwards.
func New(b []byte, shardSize uint32, opts *Options) (*Shard, error) {
	if opts == nil {
		opts = DefaultOptions
	}

	n := int(shardSize)
	switch opts.Layout {
	case LayoutSentinel:
		n++
	case LayoutImplicit:
	default:
		return nil, fmt.Errorf("%w: %v", errInvalidLayout, opts.Layout)
	}

	c := cursor.New(b)
	offsets, err := c.U32s(n)
	if err != nil {
		return nil, fmt.Errorf("reading offset table: %w", err)
	}
	if opts.Layout == LayoutImplicit {
		//nolint:gosec // shard files are bounded by the u32 offsets.
		offsets = append(offsets, uint32(len(b)))
	}

	tableEnd := uint32(c.Offset())
	prev := tableEnd
	for i, off := range offsets {
		if off < prev || int(off) > len(b) {
			return nil, fmt.Errorf("%w: offset %d (%d) out of order or past end of shard", ErrFormat, i, off)
		}
		prev = off
	}

	return &Shard{
		offsets: offsets,
		data:    b,
	}, nil
}

// Len returns the number of entry slots in the shard.
func (s *Shard) Len() int {
	return len(s.offsets) - 1
}

// Size returns the size of the shard data in bytes.
func (s *Shard) Size() int {
	return len(s.data)
}

// Get decodes the entry in slot i. It returns ErrIndexOutOfRange if the slot
// does not exist or is empty.
func (s *Shard) Get(i int) (*entry.Entry, error) {
	if i < 0 || i >= s.Len() {
		return nil, fmt.Errorf("%w: slot %d of %d", ErrIndexOutOfRange, i, s.Len())
	}

	start, end := s.offsets[i], s.offsets[i+1]
	if start == end {
		// Unused slots at the end of the last shard have no data.
		return nil, fmt.Errorf("%w: slot %d is empty", ErrIndexOutOfRange, i)
	}

	e, err := entry.Decode(s.data[start:end])
	if err != nil {
		return nil, fmt.Errorf("decoding slot %d: %w", i, err)
	}
	return e, nil
}
