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

package models

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// The API is inconsistent about the JSON type of several fields. The types in
// this file accept every shape seen in practice and never fail to decode, so
// one odd record cannot abort a whole page.

// Text is a string field that tolerates numbers, booleans and null.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(scalarString(gjson.ParseBytes(data)))
	return nil
}

func (t Text) String() string { return string(t) }

// Flag is a boolean that tolerates 0/1 and "true"/"false" strings.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(gjson.ParseBytes(data).Bool())
	return nil
}

// Links is the linked_to collection of an activity item. Non-object entries
// and entries without an id are dropped.
type Links []Link

// Link associates an activity item with a contact.
type Link struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Links) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsArray() {
		*l = nil
		return nil
	}
	var out Links
	res.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		id := v.Get("id")
		if !id.Exists() || id.Int() == 0 {
			return true
		}
		out = append(out, Link{
			ID:   id.Int(),
			Type: v.Get("type").String(),
			Name: v.Get("name").String(),
		})
		return true
	})
	*l = out
	return nil
}

// IDs returns the linked contact ids.
func (l Links) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for _, link := range l {
		ids = append(ids, link.ID)
	}
	return ids
}

// Intersects reports whether any link targets an id in set.
func (l Links) Intersects(set map[int64]bool) bool {
	for _, link := range l {
		if set[link.ID] {
			return true
		}
	}
	return false
}

// Body is a rich-text field that is either a plain string or an
// {"html": ..., "text": ...} object.
type Body struct {
	HTML  string `json:"html,omitempty"`
	Plain string `json:"text,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Body) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	switch {
	case res.IsObject():
		*b = Body{HTML: res.Get("html").String(), Plain: res.Get("text").String()}
	case res.Type == gjson.String:
		*b = Body{Plain: res.String()}
	default:
		*b = Body{}
	}
	return nil
}

// Text returns the html form when present, else the plain form.
func (b Body) Text() string {
	if b.HTML != "" {
		return b.HTML
	}
	return b.Plain
}

// IsZero reports whether the body carries no content at all.
func (b Body) IsZero() bool { return b.HTML == "" && b.Plain == "" }

// Named is a reference that is either a bare name or a {"name": ...} object.
type Named struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Named) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	switch {
	case res.IsObject():
		n.Name = res.Get("name").String()
	case res.Type == gjson.String:
		n.Name = res.String()
	default:
		n.Name = ""
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Named) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(n.Name)), nil
}

// Tag is a contact tag; the API sends either strings or {"name": ...}.
type Tag struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tag) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.IsObject() {
		t.Name = res.Get("name").String()
		return nil
	}
	t.Name = scalarString(res)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Tag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Name)), nil
}

// Stage is an opportunity pipeline stage: a name string, a {"name": ...}
// object, or a bare numeric stage id for which no name is available.
type Stage struct {
	Name string
	ID   int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stage) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	*s = Stage{}
	switch {
	case res.IsObject():
		s.Name = res.Get("name").String()
		s.ID = res.Get("id").Int()
	case res.Type == gjson.String:
		s.Name = res.String()
	case res.Type == gjson.Number:
		s.ID = res.Int()
	}
	return nil
}

// Money is an amount as the API sent it: either a JSON number or a
// preformatted string such as "$1,000".
type Money struct {
	Raw     string
	Number  float64
	Numeric bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	*m = Money{}
	switch res.Type {
	case gjson.Number:
		m.Raw = res.Raw
		m.Number = res.Float()
		m.Numeric = true
	case gjson.String:
		m.Raw = res.String()
	}
	return nil
}

// IsZero reports whether no amount was given (absent, empty or 0).
func (m Money) IsZero() bool {
	if m.Numeric {
		return m.Number == 0
	}
	return strings.TrimSpace(m.Raw) == ""
}

// Float returns the amount as a number, parsing numeric strings.
func (m Money) Float() (float64, bool) {
	if m.Numeric {
		return m.Number, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m.Raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Currency formats a number as whole dollars with thousands separators.
func Currency(v float64) string {
	return "$" + humanize.Comma(roundHalfEven(v))
}

func roundHalfEven(v float64) int64 {
	n := int64(v)
	frac := v - float64(n)
	switch {
	case frac > 0.5 || (frac == 0.5 && n%2 != 0):
		n++
	case frac < -0.5 || (frac == -0.5 && n%2 != 0):
		n--
	}
	return n
}

func scalarString(res gjson.Result) string {
	switch res.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return res.String()
	case gjson.True:
		return "True"
	case gjson.False:
		return "False"
	default:
		return res.Raw
	}
}
