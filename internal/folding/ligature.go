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

package folding

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// ligatures maps ligatures and compound punctuation to their expansions.
// Expansions are lower case since they are applied after case folding.
var ligatures = map[rune]string{
	'ꝏ': "oo",
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ﬀ': "ff",
	'ﬁ': "fi",
	'ﬂ': "fl",
	'ﬃ': "ffi",
	'ﬄ': "ffl",
	'ﬅ': "ft",
	'ﬆ': "st",
	'‥': "..",
	'…': "...",
	'⁂': "***",
	'⁇': "??",
	'⁈': "?!",
	'⁉': "!?",
}

// LigatureExpander replaces ligatures with the sequence of characters they
// are made of, e.g. "æ" becomes "ae". All other input is copied unchanged.
type LigatureExpander struct {
	transform.NopResetter
}

// Transform implements [transform.Transformer.Transform].
func (LigatureExpander) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		c, size := utf8.DecodeRune(src[nSrc:])

		out := src[nSrc : nSrc+size]
		if exp, ok := ligatures[c]; ok {
			out = []byte(exp)
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}
