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
	"fmt"
	"strconv"
	"strings"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/richtext"
	"github.com/bcem/wealthbox/internal/wbtime"
)

// AppURL is the root of the WealthBox web application.
const AppURL = "https://www.crmworkspace.com"

// RenderOptions controls optional parts of rendered blocks.
type RenderOptions struct {
	// WorkspaceID enables "View in Wealthbox" links when non-zero.
	WorkspaceID int64
	// ContactID is the exported contact; note links are anchored on it.
	ContactID int64
}

func (o RenderOptions) link(path string) string {
	return fmt.Sprintf("*[View in Wealthbox](%s/%d/%s)*", AppURL, o.WorkspaceID, path)
}

// RenderNote renders a note block.
func RenderNote(n *models.Note, opts RenderOptions) string {
	lines := []string{"### Note — " + wbtime.FormatDate(n.CreatedAt)}

	if opts.WorkspaceID != 0 && opts.ContactID != 0 && n.ID != 0 {
		lines = append(lines, opts.link(fmt.Sprintf("contacts/%d#note-%d", opts.ContactID, n.ID)))
	}

	lines = append(lines, "*By: "+displayUser(n.Creator)+"*", "")

	if content := n.Content.Text(); content != "" {
		lines = append(lines, richtext.ToMarkdown(content))
	}
	return withComments(lines, n.Comments)
}

// RenderTask renders a task block.
func RenderTask(t *models.Task, opts RenderOptions) string {
	name := orDefault(t.Name, "Untitled Task")
	check := ""
	if t.Completed {
		check = " ✓"
	}
	lines := []string{fmt.Sprintf("### Task — %s%s — %s", name, check, wbtime.FormatDate(firstNonEmpty(t.DueDate, t.CreatedAt)))}

	if opts.WorkspaceID != 0 && t.ID != 0 {
		lines = append(lines, opts.link("tasks?task_id="+strconv.FormatInt(t.ID, 10)))
	}

	var meta []string
	if !t.AssignedTo.IsZero() {
		meta = append(meta, "Assigned to: "+t.AssignedTo.String())
	}
	if t.DueDate != "" {
		meta = append(meta, "Due: "+wbtime.FormatDate(t.DueDate))
	}
	if t.Completed {
		meta = append(meta, "Status: Completed")
	} else {
		meta = append(meta, "Status: Incomplete")
	}
	lines = append(lines, "*"+strings.Join(meta, " | ")+"*", "")

	if t.Description != "" {
		lines = append(lines, richtext.ToMarkdown(t.Description))
	}
	return withComments(lines, t.Comments)
}

// RenderEvent renders an event block.
func RenderEvent(e *models.Event, opts RenderOptions) string {
	name := orDefault(e.Name, "Untitled Event")
	lines := []string{fmt.Sprintf("### Event — %s — %s", name, wbtime.FormatDate(firstNonEmpty(e.StartsAt, e.CreatedAt)))}

	if opts.WorkspaceID != 0 && e.ID != 0 {
		lines = append(lines, opts.link("events/"+strconv.FormatInt(e.ID, 10)))
	}

	var meta []string
	switch {
	case e.StartsAt != "" && e.EndsAt != "":
		meta = append(meta, wbtime.FormatDateTime(e.StartsAt)+" – "+wbtime.FormatDateTime(e.EndsAt))
	case e.StartsAt != "":
		meta = append(meta, wbtime.FormatDateTime(e.StartsAt))
	}
	if e.Location != "" {
		meta = append(meta, "Location: "+e.Location)
	}
	if len(meta) > 0 {
		lines = append(lines, "*"+strings.Join(meta, " | ")+"*")
	}
	lines = append(lines, "")

	if e.Description != "" {
		lines = append(lines, richtext.ToMarkdown(e.Description))
	}
	return withComments(lines, e.Comments)
}

// RenderWorkflow renders a workflow block with its numbered steps. Step
// comments are indented under their step.
func RenderWorkflow(w *models.Workflow, opts RenderOptions) string {
	name := orDefault(w.Name, "Untitled Workflow")
	status := ""
	if w.Status != "" {
		status = " (" + w.Status + ")"
	}
	lines := []string{fmt.Sprintf("### Workflow — %s%s — %s", name, status, wbtime.FormatDate(w.CreatedAt))}

	if opts.WorkspaceID != 0 && w.ID != 0 {
		lines = append(lines, opts.link("workflows/"+strconv.FormatInt(w.ID, 10)))
	}

	for i, step := range w.Steps {
		n := i + 1
		check := ""
		if step.Completed {
			check = "✓ "
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s", n, check, orDefault(step.Name, "Step "+strconv.Itoa(n))))

		if comments := RenderComments(step.Comments); comments != "" {
			for _, line := range strings.Split(comments, "\n") {
				lines = append(lines, "   "+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// RenderOpportunity renders an opportunity block. Stages known only by
// numeric id are omitted.
func RenderOpportunity(o *models.Opportunity, opts RenderOptions) string {
	name := orDefault(o.Name, "Untitled Opportunity")
	amount := ""
	if a := o.DisplayAmount(); a != "" {
		amount = " (" + a + ")"
	}
	lines := []string{fmt.Sprintf("### Opportunity — %s%s — %s", name, amount, wbtime.FormatDate(firstNonEmpty(o.TargetClose, o.CreatedAt)))}

	if opts.WorkspaceID != 0 && o.ID != 0 {
		lines = append(lines, opts.link("opportunities/"+strconv.FormatInt(o.ID, 10)))
	}

	var meta []string
	if o.Stage.Name != "" {
		meta = append(meta, "Stage: "+o.Stage.Name)
	}
	if o.TargetClose != "" {
		meta = append(meta, "Close Date: "+wbtime.FormatDate(o.TargetClose))
	}
	if len(meta) > 0 {
		lines = append(lines, "*"+strings.Join(meta, " | ")+"*")
	}
	return strings.Join(lines, "\n")
}

// RenderComments renders comments as block quotes. Comments with an empty
// body are left out.
func RenderComments(comments []models.Comment) string {
	var lines []string
	for _, c := range comments {
		raw := c.Body.Text()
		if raw == "" {
			continue
		}
		body := strings.TrimSpace(richtext.ToMarkdown(raw))
		if body == "" {
			continue
		}
		date := ""
		if d := wbtime.FormatDate(c.CreatedAt); d != "" {
			date = " (" + d + ")"
		}
		lines = append(lines, fmt.Sprintf("> **%s**%s: %s", displayUser(c.Creator), date, body))
	}
	return strings.Join(lines, "\n")
}

// RenderEntry renders one timeline entry with the renderer for its kind.
func RenderEntry(e Entry, opts RenderOptions) string {
	switch {
	case e.Kind == KindNote && e.Note != nil:
		return RenderNote(e.Note, opts)
	case e.Kind == KindTask && e.Task != nil:
		return RenderTask(e.Task, opts)
	case e.Kind == KindEvent && e.Event != nil:
		return RenderEvent(e.Event, opts)
	case e.Kind == KindWorkflow && e.Workflow != nil:
		return RenderWorkflow(e.Workflow, opts)
	case e.Kind == KindOpportunity && e.Opportunity != nil:
		return RenderOpportunity(e.Opportunity, opts)
	}
	return ""
}

// RenderTimeline renders the "# Activity" section, or "" when there are no
// entries.
func RenderTimeline(entries []Entry, opts RenderOptions) string {
	if len(entries) == 0 {
		return ""
	}
	parts := []string{"# Activity\n"}
	for _, e := range entries {
		block := RenderEntry(e, opts)
		if block == "" {
			continue
		}
		parts = append(parts, "---\n", block, "")
	}
	return strings.Join(parts, "\n")
}

func withComments(lines []string, comments []models.Comment) string {
	if c := RenderComments(comments); c != "" {
		lines = append(lines, "", c)
	}
	return strings.Join(lines, "\n")
}

func displayUser(u models.UserRef) string {
	return orDefault(u.String(), "Unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
