// Copyright (c) 2026 John Earle
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

package richtext

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// compactMinLines is the fewest non-blank lines a block needs before it
	// can be treated as tabular.
	compactMinLines = 4
	// compactMaxMedian is the exclusive upper bound on the median non-blank
	// line length for tabular content.
	compactMaxMedian = 60
)

// CollapseBlankLines normalises blank lines. Dense blocks of short lines
// (call logs pasted from other systems, mostly) lose every blank line; all
// other text keeps at most one blank line between paragraphs.
func CollapseBlankLines(text string) string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	var lengths []int
	for i, l := range raw {
		lines[i] = strings.TrimRightFunc(l, isSpace)
		if lines[i] != "" {
			lengths = append(lengths, utf8.RuneCountInString(lines[i]))
		}
	}
	if len(lengths) == 0 {
		return strings.TrimSpace(text)
	}

	content := len(lengths)
	blank := len(lines) - content
	sort.Ints(lengths)
	median := lengths[content/2]

	if content >= compactMinLines && median < compactMaxMedian && blank*2 >= content {
		kept := make([]string, 0, content)
		for _, l := range lines {
			if l != "" {
				kept = append(kept, l)
			}
		}
		return strings.Join(kept, "\n")
	}

	out := make([]string, 0, len(lines))
	inBlank := false
	for _, l := range lines {
		if l == "" {
			inBlank = true
			continue
		}
		if inBlank {
			out = append(out, "")
		}
		inBlank = false
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func isSpace(r rune) bool { return unicode.IsSpace(r) }
