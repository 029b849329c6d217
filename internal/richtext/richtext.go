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

// Package richtext converts the small HTML subset used in WealthBox notes,
// descriptions and comments into markdown.
package richtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ToMarkdown converts markup to markdown. Empty input yields "" and input
// without a tag marker is returned unchanged.
func ToMarkdown(markup string) string {
	if markup == "" {
		return ""
	}
	if !strings.Contains(markup, "<") {
		return markup
	}

	c := &converter{}
	c.run(html.NewTokenizer(strings.NewReader(markup)))
	return CollapseBlankLines(c.result())
}

// converter holds the state of one conversion. Reference numbering is local
// to it so concurrent conversions never share a counter.
type converter struct {
	out strings.Builder

	links    []string
	inLink   bool
	linkURL  string
	linkText strings.Builder
}

func (c *converter) run(z *html.Tokenizer) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF at the end of input; malformed trailing markup keeps
			// whatever was converted so far.
			return
		case html.TextToken:
			c.text(string(z.Text()))
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			c.start(string(name), hasAttr, z)
		case html.EndTagToken:
			name, _ := z.TagName()
			c.end(string(name))
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				c.out.WriteString("\n")
			}
		}
	}
}

func (c *converter) start(tag string, hasAttr bool, z *html.Tokenizer) {
	switch tag {
	case "b", "strong":
		c.out.WriteString("**")
	case "i", "em":
		c.out.WriteString("*")
	case "br":
		c.out.WriteString("\n")
	case "a":
		// A nested anchor closes the open one.
		c.end("a")
		c.inLink = true
		c.linkURL = ""
		c.linkText.Reset()
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) == "href" {
				c.linkURL = string(val)
			}
		}
	case "ul":
		c.out.WriteString("\n")
	case "li":
		c.out.WriteString("- ")
	}
}

func (c *converter) end(tag string) {
	switch tag {
	case "b", "strong":
		c.out.WriteString("**")
	case "i", "em":
		c.out.WriteString("*")
	case "p":
		c.out.WriteString("\n\n")
	case "a":
		if !c.inLink {
			return
		}
		c.links = append(c.links, c.linkURL)
		fmt.Fprintf(&c.out, "%s [%d]", c.linkText.String(), len(c.links))
		c.inLink = false
	case "li":
		c.out.WriteString("\n")
	}
}

func (c *converter) text(s string) {
	if c.inLink {
		c.linkText.WriteString(s)
		return
	}
	c.out.WriteString(s)
}

func (c *converter) result() string {
	// An unclosed anchor still keeps its text and reference.
	c.end("a")
	text := c.out.String()
	if len(c.links) > 0 {
		var b strings.Builder
		b.WriteString(strings.TrimRightFunc(text, isSpace))
		b.WriteString("\n\n")
		for i, u := range c.links {
			fmt.Fprintf(&b, "[%d]: %s\n", i+1, u)
		}
		text = b.String()
	}
	return strings.TrimSpace(text)
}
