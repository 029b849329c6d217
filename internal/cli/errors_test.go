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

package cli

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bcem/wealthbox/internal/runlock"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitError
	}{
		{
			name: "rate limit",
			err:  fmt.Errorf("list contacts: %w", &wealthbox.RateLimitError{Path: "contacts"}),
			want: ExitError{Code: CodeRateLimit, Message: "list contacts: rate limit exceeded on contacts", ExitCode: ExitRateLimit},
		},
		{
			name: "not found",
			err:  &wealthbox.APIError{Method: "GET", Path: "contacts/1", StatusCode: 404, Body: "{}"},
			want: ExitError{Code: CodeNotFound, Message: "GET contacts/1 failed (HTTP 404): {}", ExitCode: ExitNotFound},
		},
		{
			name: "bad json",
			err:  &wealthbox.ResponseError{Method: "GET", Path: "me", Body: "<html>"},
			want: ExitError{Code: CodeResponse, Message: "failed to decode JSON from GET me: <html>", ExitCode: ExitGeneral},
		},
		{
			name: "missing key",
			err:  &wealthbox.MissingKeyError{Path: "tasks", Key: "tasks"},
			want: ExitError{Code: CodeResponse, Message: "expected key 'tasks' not found in tasks response", ExitCode: ExitGeneral},
		},
		{
			name: "network",
			err:  fmt.Errorf("GET me: %w", &url.Error{Op: "Get", URL: "http://x/me", Err: errors.New("connection refused")}),
			want: ExitError{Code: CodeNetwork, Message: `GET me: Get "http://x/me": connection refused`, ExitCode: ExitNetwork},
		},
		{
			name: "locked",
			err:  fmt.Errorf("lock /tmp/x: %w", runlock.ErrLocked),
			want: ExitError{Code: CodeLocked, Message: "lock /tmp/x: export directory is locked by another run", ExitCode: ExitGeneral},
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: ExitError{Code: CodeUnknown, Message: "boom", ExitCode: ExitGeneral},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplySets(t *testing.T) {
	body := map[string]any{"name": "old"}
	if err := applySets(body, []string{"name=new", "value=12.5", "tags=[\"a\"]", "note=a=b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"name": "new", "value": 12.5, "tags": []any{"a"}, "note": "a=b"}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if err := applySets(body, []string{"novalue"}); err == nil {
		t.Error("expected error for a --set without '='")
	}
}

func TestLoadBody_Invalid(t *testing.T) {
	if _, err := loadBody("{not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := loadBody("@/does/not/exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
