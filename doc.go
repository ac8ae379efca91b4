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

// Package shardict implements a library for reading sharded dictionaries in
// pure Go.
//
// Sharded dictionaries are made up of several immutable files which are read
// through a [fetch.Fetcher]:
//  1. An index file named "index" that maps normalized terms to entry ids.
//     Terms are grouped into buckets by length and sorted so they can be
//     found with a binary search. See the [idx] package.
//  2. Shard files named by the shard number in three hex digits, e.g. "00a".
//     Each shard holds the encoded entries for a fixed size range of entry
//     ids. See the [shard] and [entry] packages.
//
// Files are fetched lazily. Only the index is read when the dictionary is
// loaded and shards are fetched as they are needed to answer queries. Recently
// used shards are kept in memory.
//
// Queries are normalized with [Normalize] before they are looked up. When a
// term is not found, a small fixed set of fallbacks is tried, e.g. removing a
// trailing "s" or "ing". Matching entries are ordered by [Rank].
package shardict
