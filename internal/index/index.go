// Copyright 2025 Ian Lewis
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

// Package index implements binary search over sorted tables addressed by
// position.
package index

// Search performs a binary search over n sorted items and returns the
// position of any item for which cmp returns zero. cmp(i) should return a
// negative number when the query sorts before item i, a positive number when
// it sorts after, and zero when they are equal. It returns -1 when no item
// matches.
func Search(n int, cmp func(i int) int) int {
	lo, hi := 0, n-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := cmp(mid); {
		case c == 0:
			return mid
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return -1
}

// SearchRange returns the inclusive range [lo, hi] of all items equal to the
// query. Equal items must be adjacent. found is false if no item matches.
func SearchRange(n int, cmp func(i int) int) (lo, hi int, found bool) {
	i := Search(n, cmp)
	if i < 0 {
		return -1, -1, false
	}

	// Multiple items may compare equal. Widen the range from the match found
	// by the binary search.
	lo, hi = i, i
	for lo > 0 && cmp(lo-1) == 0 {
		lo--
	}
	for hi < n-1 && cmp(hi+1) == 0 {
		hi++
	}
	return lo, hi, true
}
