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

// Package cursor implements a bounds checked sequential reader over the
// big-endian binary layouts used by index and shard files.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrFormat indicates malformed index, shard, or entry data.
var ErrFormat = errors.New("malformed data")

// Cursor reads fixed width integers, length-prefixed byte strings, and
// length-prefixed arrays from a byte slice. Every read is bounds checked and
// reports ErrFormat instead of reading past the end of the buffer.
type Cursor struct {
	b   []byte
	off int
}

// New returns a new Cursor positioned at the start of b.
func New(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.b) - c.off
}

// U32 reads a big-endian unsigned 32-bit integer.
func (c *Cursor) U32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, fmt.Errorf("%w: u32 at offset %d overruns buffer of %d bytes", ErrFormat, c.off, len(c.b))
	}
	v := binary.BigEndian.Uint32(c.b[c.off:])
	c.off += 4
	return v, nil
}

// Bytes returns the next n bytes. The returned slice aliases the underlying
// buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%w: %d bytes at offset %d overruns buffer of %d bytes", ErrFormat, n, c.off, len(c.b))
	}
	b := c.b[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

// Str reads a u32 length-prefixed UTF-8 string. Invalid UTF-8 sequences are
// replaced with the Unicode replacement character.
func (c *Cursor) Str() (string, error) {
	n, err := c.U32()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

// Len reads a u32 array length. The length is checked against the remaining
// buffer assuming each item takes at least minSize bytes so that corrupt
// lengths fail before anything is allocated.
func (c *Cursor) Len(minSize int) (int, error) {
	n, err := c.U32()
	if err != nil {
		return 0, err
	}
	if minSize > 0 && uint64(n)*uint64(minSize) > uint64(c.Remaining()) {
		return 0, fmt.Errorf("%w: array of %d items at offset %d overruns buffer of %d bytes", ErrFormat, n, c.off, len(c.b))
	}
	return int(n), nil
}

// Strs reads a u32 length-prefixed array of strings.
func (c *Cursor) Strs() ([]string, error) {
	n, err := c.Len(4)
	if err != nil {
		return nil, err
	}
	s := make([]string, 0, n)
	for range n {
		v, err := c.Str()
		if err != nil {
			return nil, err
		}
		s = append(s, v)
	}
	return s, nil
}

// U32s reads n consecutive big-endian unsigned 32-bit integers.
func (c *Cursor) U32s(n int) ([]uint32, error) {
	if n < 0 || uint64(n)*4 > uint64(c.Remaining()) {
		return nil, fmt.Errorf("%w: %d u32 values at offset %d overrun buffer of %d bytes", ErrFormat, n, c.off, len(c.b))
	}
	v := make([]uint32, n)
	for i := range v {
		v[i] = binary.BigEndian.Uint32(c.b[c.off:])
		c.off += 4
	}
	return v, nil
}
