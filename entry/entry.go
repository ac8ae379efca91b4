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

// Package entry implements the dictionary entry record stored in shard files.
//
// A record is a sequence of u32 length-prefixed UTF-8 strings and u32
// count-prefixed arrays, all big-endian:
//
//	str name
//	str pronunciation
//	arr meaning groups
//	    arr str info
//	    arr meanings
//	        arr str tags
//	        str text
//	        arr str examples
//	    arr str word variants
//	str info
//	str source
//
// Records are written by a separate, possibly lossy, build process. Only the
// name is required. Any field after it which is missing or truncated is
// decoded as empty.
package entry

import (
	"encoding/binary"
	"fmt"

	"github.com/ianlewis/go-shardict/internal/cursor"
)

// ErrFormat indicates that the entry record is malformed.
var ErrFormat = cursor.ErrFormat

// Entry is a single dictionary entry.
type Entry struct {
	// Name is the headword.
	Name string

	// Pronunciation is the pronunciation of the headword. It may be empty.
	Pronunciation string

	// MeaningGroups are the definitions grouped by sub-form of the word
	// (e.g. part of speech).
	MeaningGroups []MeaningGroup

	// Info is additional information such as etymology.
	Info string

	// Source names the dictionary the entry came from.
	Source string
}

// MeaningGroup contains the definitions for one sub-form of a word.
type MeaningGroup struct {
	// Info describes the group, e.g. parts of speech or word forms.
	Info []string

	// Meanings are the definitions.
	Meanings []Meaning

	// WordVariants are the forms of the word this group applies to. They
	// are used to order results by relevance and are not shown.
	WordVariants []string
}

// Meaning is a single definition.
type Meaning struct {
	Tags     []string
	Text     string
	Examples []string
}

// MeaningCount returns the total number of meanings across all groups.
func (e *Entry) MeaningCount() int {
	var n int
	for _, g := range e.MeaningGroups {
		n += len(g.Meanings)
	}
	return n
}

// Decode decodes a single entry record.
func Decode(b []byte) (*Entry, error) {
	c := cursor.New(b)

	name, err := c.Str()
	if err != nil {
		return nil, fmt.Errorf("reading entry name: %w", err)
	}

	e := &Entry{
		Name: name,
	}

	// The remaining fields are optional. Decoding stops at the first field
	// that cannot be read and leaves it and everything after it empty.
	if e.Pronunciation, err = c.Str(); err != nil {
		return e, nil
	}
	if e.MeaningGroups, err = decodeGroups(c); err != nil {
		return e, nil
	}
	if e.Info, err = c.Str(); err != nil {
		return e, nil
	}
	e.Source, _ = c.Str()

	return e, nil
}

func decodeGroups(c *cursor.Cursor) ([]MeaningGroup, error) {
	// Each group is at least three array lengths.
	n, err := c.Len(12)
	if err != nil {
		return nil, err
	}

	groups := make([]MeaningGroup, n)
	for i := range groups {
		g := &groups[i]
		if g.Info, err = c.Strs(); err != nil {
			return groups, err
		}
		if g.Meanings, err = decodeMeanings(c); err != nil {
			return groups, err
		}
		if g.WordVariants, err = c.Strs(); err != nil {
			return groups, err
		}
	}
	return groups, nil
}

func decodeMeanings(c *cursor.Cursor) ([]Meaning, error) {
	// Each meaning is at least two array lengths and a string length.
	n, err := c.Len(12)
	if err != nil {
		return nil, err
	}

	meanings := make([]Meaning, n)
	for i := range meanings {
		m := &meanings[i]
		if m.Tags, err = c.Strs(); err != nil {
			return meanings, err
		}
		if m.Text, err = c.Str(); err != nil {
			return meanings, err
		}
		if m.Examples, err = c.Strs(); err != nil {
			return meanings, err
		}
	}
	return meanings, nil
}

// Append appends the encoded record for e to b and returns the extended
// buffer.
func Append(b []byte, e *Entry) []byte {
	b = appendStr(b, e.Name)
	b = appendStr(b, e.Pronunciation)
	b = binary.BigEndian.AppendUint32(b, uint32(len(e.MeaningGroups)))
	for _, g := range e.MeaningGroups {
		b = appendStrs(b, g.Info)
		b = binary.BigEndian.AppendUint32(b, uint32(len(g.Meanings)))
		for _, m := range g.Meanings {
			b = appendStrs(b, m.Tags)
			b = appendStr(b, m.Text)
			b = appendStrs(b, m.Examples)
		}
		b = appendStrs(b, g.WordVariants)
	}
	b = appendStr(b, e.Info)
	b = appendStr(b, e.Source)
	return b
}

func appendStr(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func appendStrs(b []byte, s []string) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(s)))
	for _, v := range s {
		b = appendStr(b, v)
	}
	return b
}
