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

package wbtime

import (
	"testing"
	"time"
)

// TestParse_NativeFormat verifies the WealthBox "hh:mm PM -0700" format.
func TestParse_NativeFormat(t *testing.T) {
	got, ok := Parse("2023-06-21 03:32 PM -0400")
	if !ok {
		t.Fatal("expected native format to parse")
	}
	if got.Year() != 2023 || got.Month() != time.June || got.Day() != 21 {
		t.Errorf("date = %v, want 2023-06-21", got)
	}
	if got.Hour() != 15 || got.Minute() != 32 {
		t.Errorf("time = %02d:%02d, want 15:32", got.Hour(), got.Minute())
	}
	want := time.Date(2023, 6, 21, 19, 32, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("instant = %v, want %v", got.UTC(), want)
	}
}

func TestParse_NativeLowercaseMeridiem(t *testing.T) {
	cases := map[string]time.Time{
		"2023-06-21 3:32 pm -0400":  time.Date(2023, 6, 21, 19, 32, 0, 0, time.UTC),
		"2023-06-21 09:05 am -0400": time.Date(2023, 6, 21, 13, 5, 0, 0, time.UTC),
		"2023-06-21 11:00 Pm +0000": time.Date(2023, 6, 21, 23, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, ok := Parse(raw)
		if !ok {
			t.Errorf("Parse(%q) failed", raw)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", raw, got.UTC(), want)
		}
	}
}

func TestParse_ISOAndDateOnly(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2023-06-21T15:32:00Z", time.Date(2023, 6, 21, 15, 32, 0, 0, time.UTC)},
		{"2023-06-21T15:32:00-04:00", time.Date(2023, 6, 21, 19, 32, 0, 0, time.UTC)},
		{"2023-06-21T15:32:00.123456+00:00", time.Date(2023, 6, 21, 15, 32, 0, 123456000, time.UTC)},
		{"2023-06-21 15:32:00", time.Date(2023, 6, 21, 15, 32, 0, 0, time.UTC)},
		{"2023-06-21T15:32:00", time.Date(2023, 6, 21, 15, 32, 0, 0, time.UTC)},
		{"2023-06-21", time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.raw)
		if !ok {
			t.Errorf("Parse(%q) failed", tc.raw)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.raw, got.UTC(), tc.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-date", "2023-13-45", "June 21"} {
		if _, ok := Parse(raw); ok {
			t.Errorf("Parse(%q) should fail", raw)
		}
	}
}

// TestIsAfter_Strict verifies equal instants are not "after" and that offsets
// are normalised before comparing.
func TestIsAfter_Strict(t *testing.T) {
	threshold := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	if IsAfter("2026-01-10T12:00:00Z", threshold) {
		t.Error("equal timestamp must not be after")
	}
	if !IsAfter("2026-01-10T12:00:01Z", threshold) {
		t.Error("one second later must be after")
	}
	// 08:30 AM -0400 is 12:30 UTC.
	if !IsAfter("2026-01-10 08:30 AM -0400", threshold) {
		t.Error("offset timestamp should be normalised to UTC")
	}
	// Naive value is treated as UTC.
	if IsAfter("2026-01-10 11:59:59", threshold) {
		t.Error("naive earlier timestamp must not be after")
	}
	if IsAfter("garbage", threshold) {
		t.Error("unparseable input must not be after")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2023-06-21 03:32 PM -0400"); got != "2023-06-21" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(""); got != "" {
		t.Errorf("FormatDate(\"\") = %q, want empty", got)
	}
	if got := FormatDate("sometime"); got != "sometime" {
		t.Errorf("FormatDate(unparseable) = %q, want verbatim", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime("2023-06-21 03:32 PM -0400"); got != "2023-06-21 03:32 PM" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime("2026-01-20T09:05:00Z"); got != "2026-01-20 09:05 AM" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime(""); got != "" {
		t.Errorf("FormatDateTime(\"\") = %q", got)
	}
}
