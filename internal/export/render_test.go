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

package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bcem/wealthbox/internal/models"
)

func TestRenderNote(t *testing.T) {
	n := decode[models.Note](t, `{"id": 9, "created_at": "2024-01-15 02:30 PM -0500",
		"creator": {"id": 1, "name": "Alice"}, "content": {"html": "<b>Met</b> today"},
		"comments": [{"creator": "Bob", "created_at": "2024-01-16", "body": "Thanks"}, {"body": ""}]}`)

	got := RenderNote(&n, RenderOptions{})
	want := "### Note — 2024-01-15\n*By: Alice*\n\n**Met** today\n\n> **Bob** (2024-01-16): Thanks"
	assert.Equal(t, want, got)
}

func TestRenderNote_Link(t *testing.T) {
	n := models.Note{ID: 9}
	got := RenderNote(&n, RenderOptions{WorkspaceID: 3, ContactID: 5})
	assert.Contains(t, got, "*[View in Wealthbox](https://www.crmworkspace.com/3/contacts/5#note-9)*")
	assert.Contains(t, got, "*By: Unknown*")
}

func TestRenderTask(t *testing.T) {
	task := models.Task{ID: 4, Name: "Call", DueDate: "2024-02-01", Completed: true,
		AssignedTo: models.UserRef{Name: "Alice"}, Description: "Discuss <i>plan</i>"}

	got := RenderTask(&task, RenderOptions{WorkspaceID: 3})
	want := strings.Join([]string{
		"### Task — Call ✓ — 2024-02-01",
		"*[View in Wealthbox](https://www.crmworkspace.com/3/tasks?task_id=4)*",
		"*Assigned to: Alice | Due: 2024-02-01 | Status: Completed*",
		"",
		"Discuss *plan*",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderTask_Defaults(t *testing.T) {
	got := RenderTask(&models.Task{CreatedAt: "2024-03-03"}, RenderOptions{})
	assert.True(t, strings.HasPrefix(got, "### Task — Untitled Task — 2024-03-03\n*Status: Incomplete*"), got)
}

func TestRenderEvent(t *testing.T) {
	e := models.Event{Name: "Review", StartsAt: "2024-04-01T09:00:00Z", EndsAt: "2024-04-01T10:30:00Z", Location: "Office"}
	got := RenderEvent(&e, RenderOptions{})
	want := "### Event — Review — 2024-04-01\n*2024-04-01 09:00 AM – 2024-04-01 10:30 AM | Location: Office*\n"
	assert.Equal(t, want, got)
}

func TestRenderWorkflow(t *testing.T) {
	w := decode[models.Workflow](t, `{"id": 2, "name": "Onboarding", "status": "active", "created_at": "2024-01-01",
		"workflow_steps": [
			{"id": 1, "name": "Paperwork", "completed": true, "comments": [{"creator": "Al", "body": "done"}]},
			{"id": 2, "completed": 0}
		]}`)

	got := RenderWorkflow(&w, RenderOptions{})
	want := strings.Join([]string{
		"### Workflow — Onboarding (active) — 2024-01-01",
		"1. ✓ Paperwork",
		"   > **Al**: done",
		"2. Step 2",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderOpportunity(t *testing.T) {
	o := decode[models.Opportunity](t, `{"id": 8, "name": "Rollover", "target_close": "2024-09-30",
		"stage": {"id": 3, "name": "Proposal"}, "amounts": [{"amount": 250000, "kind": "Fee"}]}`)

	got := RenderOpportunity(&o, RenderOptions{})
	assert.Equal(t, "### Opportunity — Rollover ($250,000) — 2024-09-30\n*Stage: Proposal | Close Date: 2024-09-30*", got)
}

func TestRenderOpportunity_NumericStageOmitted(t *testing.T) {
	o := decode[models.Opportunity](t, `{"name": "X", "created_at": "2024-01-01", "stage": 12}`)
	assert.Equal(t, "### Opportunity — X — 2024-01-01", RenderOpportunity(&o, RenderOptions{}))
}

func TestRenderTimeline(t *testing.T) {
	assert.Equal(t, "", RenderTimeline(nil, RenderOptions{}))

	n := models.Note{CreatedAt: "2024-01-01", Content: models.Body{Plain: "hi"}}
	got := RenderTimeline([]Entry{{Kind: KindNote, Note: &n}}, RenderOptions{})
	assert.Equal(t, "# Activity\n\n---\n\n### Note — 2024-01-01\n*By: Unknown*\n\nhi\n", got)
}
