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

package shardict

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ianlewis/go-shardict/entry"
)

// Result is the result of a dictionary query.
type Result struct {
	// Term is the normalized term which matched. If a fallback matched, this
	// is the term after the fallback was applied.
	Term string

	// Entries are the matching entries ordered by relevance.
	Entries []*entry.Entry
}

// String returns a plain text rendering of the result.
func (r *Result) String() string {
	return r.Format(entry.DefaultFormatOptions)
}

// Format returns a plain text rendering of the result. The term is followed
// by each entry, separated by blank lines.
func (r *Result) Format(opts *entry.FormatOptions) string {
	var s strings.Builder
	if r.Term != "" {
		s.WriteString(r.Term)
		s.WriteString("\n")
	}
	for _, e := range r.Entries {
		s.WriteString("\n")
		s.WriteString(e.Format(opts))
	}
	return s.String()
}

// hasVariant reports whether the lower cased word variants of g include term.
func hasVariant(g *entry.MeaningGroup, term string) bool {
	for _, v := range g.WordVariants {
		if strings.ToLower(v) == term {
			return true
		}
	}
	return false
}

func entryHasVariant(e *entry.Entry, term string) bool {
	for i := range e.MeaningGroups {
		if hasVariant(&e.MeaningGroups[i], term) {
			return true
		}
	}
	return false
}

// preferTrue orders a before b if a is true and b is false.
func preferTrue(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	}
	return 0
}

// preferMore orders a before b if a is greater.
func preferMore(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// Rank sorts entries by relevance to the normalized term. The sort is
// stable. Entries are ordered by the first of the following that differs:
//  1. the name equals term.
//  2. a lower cased word variant equals term.
//  3. the lower cased name equals term.
//  4. the name is lower case, i.e. is not an abbreviation or proper noun.
//  5. more meaning groups.
//  6. more meanings.
//  7. the lower cased name starts with term.
//  8. the name in English collation order.
//
// The meaning groups of each entry are then reordered so that groups with a
// word variant equal to term come first.
func Rank(term string, entries []*entry.Entry) {
	col := collate.New(language.English)

	slices.SortStableFunc(entries, func(a, b *entry.Entry) int {
		if c := preferTrue(a.Name == term, b.Name == term); c != 0 {
			return c
		}
		if c := preferTrue(entryHasVariant(a, term), entryHasVariant(b, term)); c != 0 {
			return c
		}

		aHead, bHead := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if c := preferTrue(aHead == term, bHead == term); c != 0 {
			return c
		}
		if c := preferTrue(aHead == a.Name, bHead == b.Name); c != 0 {
			return c
		}
		if c := preferMore(len(a.MeaningGroups), len(b.MeaningGroups)); c != 0 {
			return c
		}
		if c := preferMore(a.MeaningCount(), b.MeaningCount()); c != 0 {
			return c
		}
		if c := preferTrue(strings.HasPrefix(aHead, term), strings.HasPrefix(bHead, term)); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	})

	for _, e := range entries {
		slices.SortStableFunc(e.MeaningGroups, func(a, b entry.MeaningGroup) int {
			return preferTrue(hasVariant(&a, term), hasVariant(&b, term))
		})
	}
}
