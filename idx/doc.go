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

// Package idx implements reading the term index file.
//
// The index groups normalized terms into buckets by byte length. Bucket i
// holds the terms of length i+1 as a table of fixed width slots sorted by
// byte value, so a term can be found by binary search without any per-term
// framing. All integers are big-endian unsigned 32-bit values:
//
//  1. The shard size: the number of entries stored in each shard file.
//  2. The bucket count.
//  3. The number of slots in each bucket.
//  4. The term tables of each bucket, concatenated. Bucket i takes
//     count[i]*(i+1) bytes.
//  5. The entry id tables of each bucket, one id per slot in the same order
//     as the term table.
//
// A term which belongs to several entries occupies one slot per entry. Those
// slots are adjacent since the table is sorted.
package idx
