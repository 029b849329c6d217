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

// Package output formats API responses for the terminal: indented JSON, one
// JSON object per line, CSV, or a table. Records are handled as raw JSON so
// field order is kept as the API sent it.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/gjson"
)

// Format is an output format.
type Format string

// Output formats. Auto picks Table on a terminal and JSON otherwise.
const (
	Auto  Format = ""
	JSON  Format = "json"
	Table Format = "table"
	CSV   Format = "csv"
)

// Options controls how records are printed.
type Options struct {
	Format Format
	// Fields keeps only the named top-level fields of each object.
	Fields []string
	// Head keeps the first N records when positive.
	Head      int
	Count     bool
	Oneline   bool
	NoHeaders bool
	// File writes to the named file instead of the writer.
	File string
	// Terminal reports whether the writer is a terminal, for Auto.
	Terminal bool
}

// StdoutIsTerminal reports whether standard output is a terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseFields splits a comma-separated field list, dropping blanks.
func ParseFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// WriteValue marshals v and writes it with Write.
func WriteValue(w io.Writer, v any, opts Options) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return Write(w, data, opts)
}

// Write formats data, a JSON array of records or a single record, and
// writes it to w or opts.File.
func Write(w io.Writer, data []byte, opts Options) error {
	text, err := Render(data, opts)
	if err != nil {
		return err
	}
	if opts.File != "" {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		if err := os.WriteFile(opts.File, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

// Render returns the formatted text without a trailing newline. Filtering
// runs first, then Head, then Count or Oneline or the chosen format.
func Render(data []byte, opts Options) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("output is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	isList := root.IsArray()

	var records []string
	if isList {
		root.ForEach(func(_, v gjson.Result) bool {
			records = append(records, v.Raw)
			return true
		})
	} else {
		records = []string{root.Raw}
	}

	if len(opts.Fields) > 0 {
		for i, r := range records {
			records[i] = filterFields(r, opts.Fields)
		}
	}
	if opts.Head > 0 && len(records) > opts.Head {
		records = records[:opts.Head]
	}

	switch {
	case opts.Count:
		return strconv.Itoa(len(records)), nil
	case opts.Oneline:
		return oneline(records), nil
	}

	format := opts.Format
	if format == Auto {
		format = JSON
		if opts.Terminal {
			format = Table
		}
	}

	switch format {
	case CSV:
		if keys, ok := columns(records); ok {
			return renderCSV(records, keys, opts.NoHeaders)
		}
	case Table:
		if keys, ok := columns(records); ok {
			return renderTable(records, keys, opts.NoHeaders), nil
		}
	}
	return renderJSON(records, isList), nil
}

// filterFields keeps the listed keys of an object in their original order.
// Non-objects pass through.
func filterFields(raw string, fields []string) string {
	obj := gjson.Parse(raw)
	if !obj.IsObject() {
		return raw
	}
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	var b strings.Builder
	b.WriteByte('{')
	n := 0
	obj.ForEach(func(k, v gjson.Result) bool {
		if keep[k.String()] {
			if n > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k.Raw)
			b.WriteByte(':')
			b.WriteString(v.Raw)
			n++
		}
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func renderJSON(records []string, isList bool) string {
	var doc string
	switch {
	case isList:
		doc = "[" + strings.Join(records, ",") + "]"
	case len(records) > 0:
		doc = records[0]
	default:
		doc = "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(doc), "", "  "); err != nil {
		return doc
	}
	return buf.String()
}

func oneline(records []string) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = compact(r)
	}
	return strings.Join(lines, "\n")
}

func compact(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return raw
	}
	return buf.String()
}

// columns returns the keys of the first record. Tabular output needs
// object records; ok is false otherwise.
func columns(records []string) (keys []string, ok bool) {
	if len(records) == 0 {
		return nil, true
	}
	first := gjson.Parse(records[0])
	if !first.IsObject() {
		return nil, false
	}
	first.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys, true
}

// cells flattens one record into display strings, one per key.
func cells(raw string, keys []string) []string {
	obj := gjson.Parse(raw)
	row := make([]string, len(keys))
	for i, k := range keys {
		row[i] = flatten(obj.Get(gjson.Escape(k)))
	}
	return row
}

// flatten renders a value for a table or CSV cell: null and missing are
// empty, booleans are lower case, arrays and objects stay JSON.
func flatten(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.String:
		return v.String()
	case gjson.Number:
		return v.Raw
	default:
		return compact(v.Raw)
	}
}

func renderCSV(records, keys []string, noHeaders bool) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if !noHeaders {
		if err := cw.Write(keys); err != nil {
			return "", err
		}
	}
	for _, r := range records {
		if err := cw.Write(cells(r, keys)); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return strings.TrimRight(buf.String(), "\r\n"), nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(records, keys []string, noHeaders bool) string {
	if len(records) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if !noHeaders {
		headers := make([]string, len(keys))
		for i, k := range keys {
			headers[i] = strings.ToUpper(k)
		}
		t = t.Headers(headers...)
	}
	for _, r := range records {
		t = t.Row(cells(r, keys)...)
	}
	return strings.TrimRight(t.String(), "\n")
}
