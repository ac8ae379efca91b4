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
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ianlewis/go-shardict/internal/folding"
)

// mapPunct maps smart punctuation to ASCII and all whitespace to an ASCII
// space.
func mapPunct(r rune) rune {
	switch {
	case r == '«', r == '»':
		return '"'
	case r >= '‐' && r <= '―':
		return '-'
	case r >= '‘' && r <= '‛':
		return '\''
	case r >= '“' && r <= '‟':
		return '"'
	case r == '․':
		return '.'
	case r == '′', r == '‵', r == '‹', r == '›':
		return '\''
	case r == '″', r == '‶':
		return '"'
	case r == '‸':
		return '^'
	case r == '⁏':
		return ';'
	case unicode.IsSpace(r):
		return ' '
	}
	return r
}

// allowed reports whether r may appear in a normalized term.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case ' ', '\'', '_', '.', ',', '-':
		return true
	}
	return false
}

// Normalize returns the normalized form of s. Dictionary terms are stored in
// normalized form so queries must be normalized before they are looked up.
//
// The input is decomposed (NFKD) and lower cased. Smart punctuation is
// replaced with its ASCII equivalent and ligatures are expanded. All
// characters other than a-z, 0-9, space, and the punctuation '_., and - are
// removed. Finally, runs of whitespace are replaced by a single space, runs
// of dashes are replaced by a single dash, and leading and trailing
// whitespace is removed.
//
// Normalize is idempotent. The result may be empty.
func Normalize(s string) string {
	t := transform.Chain(
		norm.NFKD,
		cases.Lower(language.Und),
		runes.Map(mapPunct),
		folding.LigatureExpander{},
		runes.Remove(runes.Predicate(func(r rune) bool { return !allowed(r) })),
		folding.NewWhitespaceFolder(),
		folding.NewDashFolder(),
	)
	//nolint:errcheck // None of the transformers return errors.
	out, _, _ := transform.String(t, s)
	return out
}
