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

// Package wbtime reconciles the timestamp formats returned by the WealthBox
// API into comparable time values.
//
// Three families are accepted, tried in order:
//
//	2023-06-21 03:32 PM -0400     WealthBox native
//	2023-06-21T15:32:00-04:00     ISO-8601 date-time, zone optional
//	2023-06-21                    date only
//
// Values without an explicit zone are taken to be UTC already.
package wbtime

import (
	"strings"
	"time"
)

const (
	// DateLayout is the display format for date-only values.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the display format for date plus 12-hour time.
	DateTimeLayout = "2006-01-02 03:04 PM"
)

var nativeLayouts = []string{
	"2006-01-02 03:04 PM -0700",
	"2006-01-02 3:04 PM -0700",
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// Parse converts a raw API timestamp into a time value. The boolean is false
// for empty or unrecognised input.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	// The meridiem may arrive in either case.
	native := strings.ToUpper(raw)
	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, native); err == nil {
			return t, true
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// IsAfter reports whether raw parses to an instant strictly later than
// threshold. Unparseable input is never after anything.
func IsAfter(raw string, threshold time.Time) bool {
	t, ok := Parse(raw)
	if !ok {
		return false
	}
	return t.After(threshold)
}

// FormatDate renders raw as YYYY-MM-DD in its own offset. Empty input yields
// "" and unparseable input is returned verbatim.
func FormatDate(raw string) string {
	if t, ok := Parse(raw); ok {
		return t.Format(DateLayout)
	}
	return raw
}

// FormatDateTime renders raw as "YYYY-MM-DD hh:mm AM".
func FormatDateTime(raw string) string {
	if t, ok := Parse(raw); ok {
		return t.Format(DateTimeLayout)
	}
	return raw
}
