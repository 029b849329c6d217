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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMarkdown_Passthrough(t *testing.T) {
	assert.Equal(t, "", ToMarkdown(""))
	assert.Equal(t, "Hello world", ToMarkdown("Hello world"))
	// Plain text is returned untouched, including surrounding whitespace.
	assert.Equal(t, "  spaced\n\n\n\nout  ", ToMarkdown("  spaced\n\n\n\nout  "))
}

func TestToMarkdown_Emphasis(t *testing.T) {
	cases := map[string]string{
		"<b>bold</b>":                    "**bold**",
		"<strong>strong</strong>":        "**strong**",
		"<i>italic</i>":                  "*italic*",
		"<em>emphasis</em>":              "*emphasis*",
		"<b><i>bold italic</i></b>":      "***bold italic***",
		"<em><strong>both</strong></em>": "***both***",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToMarkdown(in), "input %q", in)
	}
}

func TestToMarkdown_LineBreaks(t *testing.T) {
	assert.Equal(t, "line1\nline2", ToMarkdown("line1<br>line2"))
	assert.Equal(t, "line1\nline2", ToMarkdown("line1<br/>line2"))
	assert.Equal(t, "line1\nline2", ToMarkdown("line1<BR />line2"))
	assert.Equal(t, "First paragraph\n\nSecond paragraph",
		ToMarkdown("<p>First paragraph</p><p>Second paragraph</p>"))
}

func TestToMarkdown_Links(t *testing.T) {
	got := ToMarkdown(`<p>See <a href="https://a.com">A</a> and <a href="https://b.com">B</a>.</p>`)
	assert.Contains(t, got, "See A [1] and B [2].")
	assert.True(t, strings.HasSuffix(got, "[1]: https://a.com\n[2]: https://b.com"), got)

	// Numbering restarts on every call.
	again := ToMarkdown(`<a href="https://c.com">C</a>`)
	assert.Equal(t, "C [1]\n\n[1]: https://c.com", again)
}

func TestToMarkdown_UnclosedLink(t *testing.T) {
	assert.Equal(t, "see unterminated [1]\n\n[1]: x", ToMarkdown(`see <a href='x'>unterminated`))
	assert.Equal(t, "A [1]B [2]\n\n[1]: a\n[2]: b",
		ToMarkdown(`<a href="a">A<a href="b">B</a>`))
}

func TestToMarkdown_List(t *testing.T) {
	got := ToMarkdown("<ul><li>One</li><li>Two</li></ul>")
	assert.Equal(t, "- One\n- Two", got)
}

// TestToMarkdown_UnknownTags verifies unrecognised tags are dropped while their
// text survives, and entities are decoded.
func TestToMarkdown_UnknownTags(t *testing.T) {
	got := ToMarkdown(`<div class="x"><span>Tom &amp; Jerry</span></div>`)
	assert.Equal(t, "Tom & Jerry", got)
}

func TestCollapseBlankLines_Paragraphs(t *testing.T) {
	in := "A long paragraph line that goes on and on well past sixty characters in total.\n\n\n\nSecond one."
	want := "A long paragraph line that goes on and on well past sixty characters in total.\n\nSecond one."
	assert.Equal(t, want, CollapseBlankLines(in))
}

// TestCollapseBlankLines_Tabular verifies dense short-line blocks lose all
// blank lines.
func TestCollapseBlankLines_Tabular(t *testing.T) {
	in := "Call: in\n\nFrom: Bob\n\nTo: Alice\n\nLength: 3m\n"
	assert.Equal(t, "Call: in\nFrom: Bob\nTo: Alice\nLength: 3m", CollapseBlankLines(in))
}

// TestCollapseBlankLines_FewLinesNeverCompacted verifies the minimum line
// count gate regardless of line length.
func TestCollapseBlankLines_FewLinesNeverCompacted(t *testing.T) {
	in := "a\n\n\nb\n\n\nc"
	assert.Equal(t, "a\n\nb\n\nc", CollapseBlankLines(in))
}

func TestCollapseBlankLines_Idempotent(t *testing.T) {
	inputs := []string{
		"Call: in\n\nFrom: Bob\n\nTo: Alice\n\nLength: 3m",
		"para one\n\n\n\npara two\n   \npara three",
		"x",
		"\n\n  \n",
	}
	for _, in := range inputs {
		once := CollapseBlankLines(in)
		assert.Equal(t, once, CollapseBlankLines(once), "input %q", in)
	}
}

func TestCollapseBlankLines_PreservesOrder(t *testing.T) {
	in := "one\n\ntwo\n\nthree\n\nfour\n\nfive"
	got := CollapseBlankLines(in)
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, strings.Split(got, "\n"))
}
