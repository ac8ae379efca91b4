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

package entry

import (
	"fmt"
	"strings"

	"github.com/k3a/html2text"
)

// FormatOptions control the plain text rendering of an entry.
type FormatOptions struct {
	// Examples includes the usage examples of each meaning.
	Examples bool

	// Info includes the entry info (e.g. etymology).
	Info bool

	// StripHTML converts markup in meaning text to plain text.
	StripHTML bool
}

// DefaultFormatOptions is the default options for Format.
var DefaultFormatOptions = &FormatOptions{
	Examples: true,
	Info:     true,
}

// String returns a plain text rendering of the entry using the default
// options.
func (e *Entry) String() string {
	return e.Format(DefaultFormatOptions)
}

// Format returns a plain text rendering of the entry.
//
//	name · pronunciation
//	  info — info
//	     1. [tag] [tag] text
//	        - example
//	  entry info
//	source
func (e *Entry) Format(opts *FormatOptions) string {
	if opts == nil {
		opts = DefaultFormatOptions
	}

	var s strings.Builder
	s.WriteString(e.Name)
	if e.Pronunciation != "" {
		s.WriteString(" · ")
		s.WriteString(e.Pronunciation)
	}
	s.WriteString("\n")

	for _, g := range e.MeaningGroups {
		if len(g.Info) > 0 {
			s.WriteString("  ")
			s.WriteString(strings.Join(g.Info, " — "))
			s.WriteString("\n")
		}
		for i, m := range g.Meanings {
			fmt.Fprintf(&s, "  %4d. ", i+1)
			if len(m.Tags) > 0 {
				s.WriteString("[")
				s.WriteString(strings.Join(m.Tags, "] ["))
				s.WriteString("] ")
			}
			text := m.Text
			if opts.StripHTML {
				text = html2text.HTML2Text(text)
			}
			s.WriteString(text)
			s.WriteString("\n")
			if opts.Examples {
				for _, x := range m.Examples {
					s.WriteString("        - ")
					s.WriteString(x)
					s.WriteString("\n")
				}
			}
		}
	}

	if opts.Info && e.Info != "" {
		s.WriteString("  ")
		s.WriteString(e.Info)
		s.WriteString("\n")
	}
	if e.Source != "" {
		s.WriteString(e.Source)
		s.WriteString("\n")
	}
	return s.String()
}
