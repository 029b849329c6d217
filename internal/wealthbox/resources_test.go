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
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcem/wealthbox/internal/models"
)

const usersPage = `{"users": [{"id": 1, "name": "John Doe", "email": "john@example.com"}], "meta": {"total_pages": 1}}`

func TestUserMap_Methods(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, usersPage)
	})

	for method, want := range map[string]string{
		UserMapName:      "John Doe",
		UserMapFirstName: "John",
		UserMapFull:      "1; John Doe; john@example.com",
	} {
		m, err := c.UserMap(context.Background(), method)
		require.NoError(t, err, method)
		assert.Equal(t, want, m[1], method)
	}
}

func TestUserMap_InvalidMethod(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid method")
	})

	_, err := c.UserMap(context.Background(), "invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestCurrentUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		fmt.Fprint(w, `{"current_user": {"id": 42, "name": "Ada Advisor", "email": "ada@example.com"}}`)
	})

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "Ada Advisor", u.Name)
}

// TestNotesWithComments verifies the note query and that each note gets its
// own comments.
func TestNotesWithComments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/notes":
			assert.Equal(t, "100", q.Get("resource_id"))
			assert.Equal(t, "contact", q.Get("resource_type"))
			fmt.Fprint(w, `{"status_updates": [{"id": 1, "content": "A note"}, {"id": 2, "content": "B"}], "meta": {"total_pages": 1}}`)
		case "/comments":
			assert.Equal(t, CommentOnStatusUpdate, q.Get("resource_type"))
			fmt.Fprintf(w, `{"comments": [{"id": 9, "body": "re %s"}], "meta": {"total_pages": 1}}`, q.Get("resource_id"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	notes, err := c.NotesWithComments(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "A note", notes[0].Content.Text())
	require.Len(t, notes[1].Comments, 1)
	assert.Equal(t, "re 2", notes[1].Comments[0].Body.Text())
}

// TestWorkflowsWithComments verifies the three status passes and step
// comments.
func TestWorkflowsWithComments(t *testing.T) {
	var statuses []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/workflows":
			status := q.Get("status")
			statuses = append(statuses, status)
			if status == "completed" {
				fmt.Fprint(w, `{"workflows": [{"id": 5, "name": "Onboarding", "workflow_steps": [{"id": 50, "name": "Call"}]}], "meta": {"total_pages": 1}}`)
				return
			}
			fmt.Fprint(w, `{"workflows": [], "meta": {"total_pages": 1}}`)
		case "/comments":
			assert.Equal(t, CommentOnWorkflowStep, q.Get("resource_type"))
			assert.Equal(t, "50", q.Get("resource_id"))
			fmt.Fprint(w, `{"comments": [{"body": "done"}], "meta": {"total_pages": 1}}`)
		}
	})

	wfs, err := c.WorkflowsWithComments(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, WorkflowStatuses, statuses)
	require.Len(t, wfs, 1)
	require.Len(t, wfs[0].Steps[0].Comments, 1)
	assert.Equal(t, "done", wfs[0].Steps[0].Comments[0].Body.Text())
}

func TestListTasks_CompletionParam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("completed"))
		fmt.Fprint(w, `{"tasks": [{"id": 1, "complete": true}], "meta": {"total_pages": 1}}`)
	})

	tasks, err := c.ListTasks(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestHouseholdMembers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/household_members", r.URL.Path)
			fmt.Fprint(w, `{"household_id": 100, "contact_id": 200}`)
		case http.MethodDelete:
			assert.Equal(t, "/household_members/100/200", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	raw, err := c.AddHouseholdMember(context.Background(), 100, 200)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"contact_id": 200`))
	require.NoError(t, c.RemoveHouseholdMember(context.Background(), 100, 200))
}

func TestEnhanceUserInfo(t *testing.T) {
	users := models.UserMap{1: "John", 2: "Jane"}

	got := EnhanceUserInfo([]any{
		map[string]any{"creator": float64(1), "items": []any{map[string]any{"assigned_to": float64(2)}}},
		map[string]any{"creator": float64(999), "name": "kept"},
	}, users).([]any)

	first := got[0].(map[string]any)
	assert.Equal(t, "John", first["creator"])
	assert.Equal(t, "Jane", first["items"].([]any)[0].(map[string]any)["assigned_to"])
	assert.Equal(t, float64(999), got[1].(map[string]any)["creator"])

	assert.Equal(t, "string", EnhanceUserInfo("string", users))
	assert.Equal(t, 123, EnhanceUserInfo(123, users))
	assert.Nil(t, EnhanceUserInfo(nil, users))
}
