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

package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// spanFolder replaces each span of runes matching inSpan with a single
// replacement rune.
type spanFolder struct {
	inSpan func(rune) bool
	repl   rune

	// trim drops spans at the beginning and end of the input.
	trim bool

	// notStart is true after encountering the first rune outside a span.
	notStart bool

	// span is true if the transformer is currently handling a span.
	span bool
}

// Transform implements [transform.Transformer.Transform].
func (f *spanFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		c, size := utf8.DecodeRune(src[nSrc:])

		if f.inSpan(c) {
			if f.span {
				nSrc += size
				continue
			}
			if !f.trim {
				// Emit the replacement at the start of the span.
				if nDst+utf8.RuneLen(f.repl) > len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				nDst += utf8.EncodeRune(dst[nDst:], f.repl)
				f.span = true
				nSrc += size
				continue
			}
			nSrc += size
			if f.notStart {
				// Leading spans are dropped.
				f.span = true
			}
			continue
		}

		if f.span && f.trim {
			// Emit the replacement when coming out of an internal span.
			// Trailing spans are never emitted.
			if nDst+utf8.RuneLen(f.repl) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += utf8.EncodeRune(dst[nDst:], f.repl)
		}
		f.span = false

		// Emit the character.
		// NOTE: we cannot use size here because c could be utf8.RuneError in
		// which case size would be 1 but the length of utf8.RuneError is 3.
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		f.notStart = true
		nSrc += size
		nDst += utf8.EncodeRune(dst[nDst:], c)
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (f *spanFolder) Reset() {
	f.notStart = false
	f.span = false
}

// WhitespaceFolder will perform whitespace folding on the input. It removes
// spaces from the beginning and end of the input and replaces all internal
// whitespace spans with a single ASCII space rune.
type WhitespaceFolder struct {
	spanFolder
}

// NewWhitespaceFolder returns a new WhitespaceFolder.
func NewWhitespaceFolder() *WhitespaceFolder {
	return &WhitespaceFolder{
		spanFolder: spanFolder{
			inSpan: unicode.IsSpace,
			repl:   ' ',
			trim:   true,
		},
	}
}

// DashFolder replaces every run of '-' with a single '-'. Leading and
// trailing dashes are kept.
type DashFolder struct {
	spanFolder
}

// NewDashFolder returns a new DashFolder.
func NewDashFolder() *DashFolder {
	return &DashFolder{
		spanFolder: spanFolder{
			inSpan: func(r rune) bool { return r == '-' },
			repl:   '-',
		},
	}
}
