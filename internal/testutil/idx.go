// Copyright 2024 Google LLC
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
	"bytes"
	"encoding/binary"
	"slices"
)

// Term is an index slot mapping a term to an entry id.
type Term struct {
	Term string
	ID   uint32
}

// MakeIndex makes a test index given a list of terms. Terms are bucketed by
// length and sorted by byte value. Slots for the same term keep the order
// they were given in. One empty bucket is added after the longest term so
// that every term is within the searchable range.
func MakeIndex(shardSize uint32, terms []Term) []byte {
	var buckets [][]Term
	for _, t := range terms {
		if len(t.Term) == 0 {
			panic("empty term")
		}
		for len(t.Term) > len(buckets) {
			buckets = append(buckets, nil)
		}
		buckets[len(t.Term)-1] = append(buckets[len(t.Term)-1], t)
	}
	for _, b := range buckets {
		slices.SortStableFunc(b, func(x, y Term) int {
			return bytes.Compare([]byte(x.Term), []byte(y.Term))
		})
	}
	buckets = append(buckets, nil)

	return MakeBuckets(shardSize, buckets)
}

// MakeBuckets writes an index from buckets exactly as given. Bucket i must
// hold terms of length i+1 in sorted order.
func MakeBuckets(shardSize uint32, buckets [][]Term) []byte {
	b := binary.BigEndian.AppendUint32(nil, shardSize)

	//nolint:gosec // test code
	b = binary.BigEndian.AppendUint32(b, uint32(len(buckets)))
	for _, x := range buckets {
		//nolint:gosec // test code
		b = binary.BigEndian.AppendUint32(b, uint32(len(x)))
	}
	for i, x := range buckets {
		for _, t := range x {
			if len(t.Term) != i+1 {
				panic("term " + t.Term + " in wrong bucket")
			}
			b = append(b, t.Term...)
		}
	}
	for _, x := range buckets {
		for _, t := range x {
			b = binary.BigEndian.AppendUint32(b, t.ID)
		}
	}
	return b
}
