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

package wealthbox

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResponseError reports a response body that is not valid JSON.
type ResponseError struct {
	Method string
	Path   string
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("failed to decode JSON from %s %s: %s", e.Method, e.Path, truncate(e.Body, 200))
}

// MissingKeyError reports a paged response without the expected item key.
type MissingKeyError struct {
	Path string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("expected key '%s' not found in %s response", e.Key, e.Path)
}

// RateLimitError is returned when the API still answers 429 after retries.
// RetryAfter is zero when the server sent no usable Retry-After header.
type RateLimitError struct {
	Path       string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded on %s (retry after %s)", e.Path, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded on %s", e.Path)
}

// APIError is any other non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed (HTTP %d): %s", e.Method, e.Path, e.StatusCode, truncate(e.Body, 500))
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := time.Parse(time.RFC1123, v); err == nil {
		if d := time.Until(at); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
