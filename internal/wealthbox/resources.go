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
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bcem/wealthbox/internal/models"
)

// Resource describes a CRUD endpoint.
type Resource struct {
	// Label is the singular display name, e.g. "Contact".
	Label string
	// Path is the collection path, e.g. "contacts".
	Path string
	// Key is the item key of list responses.
	Key string
}

// Typed resources exposed by the CLI.
var (
	Contacts          = Resource{Label: "Contact", Path: "contacts", Key: "contacts"}
	Tasks             = Resource{Label: "Task", Path: "tasks", Key: "tasks"}
	Notes             = Resource{Label: "Note", Path: "notes", Key: "status_updates"}
	Events            = Resource{Label: "Event", Path: "events", Key: "events"}
	Workflows         = Resource{Label: "Workflow", Path: "workflows", Key: "workflows"}
	WorkflowTemplates = Resource{Label: "Workflow template", Path: "workflow_templates", Key: "workflow_templates"}
	Opportunities     = Resource{Label: "Opportunity", Path: "opportunities", Key: "opportunities"}
	Projects          = Resource{Label: "Project", Path: "projects", Key: "projects"}
)

// Comment resource types.
const (
	CommentOnTask         = "task"
	CommentOnStatusUpdate = "status_update"
	CommentOnEvent        = "event"
	CommentOnWorkflowStep = "workflow_step"
)

// WorkflowStatuses are the workflow states listed separately by the API.
var WorkflowStatuses = []string{"active", "completed", "scheduled"}

// ItemPath returns the path of one record.
func (r Resource) ItemPath(id int64) string {
	return r.Path + "/" + strconv.FormatInt(id, 10)
}

// ListRecords returns every record matching params. A positive limit caps
// the result.
func (c *Client) ListRecords(ctx context.Context, r Resource, params url.Values, limit int) (json.RawMessage, error) {
	return c.FetchLimit(ctx, r.Path, params, r.Key, limit)
}

// GetRecord fetches one record by id.
func (c *Client) GetRecord(ctx context.Context, r Resource, id int64) (json.RawMessage, error) {
	return c.Get(ctx, r.ItemPath(id), nil)
}

// CreateRecord posts a new record.
func (c *Client) CreateRecord(ctx context.Context, r Resource, body map[string]any) (json.RawMessage, error) {
	return c.Post(ctx, r.Path, body)
}

// UpdateRecord puts changed fields of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, r Resource, id int64, body map[string]any) (json.RawMessage, error) {
	return c.Put(ctx, r.ItemPath(id), body)
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, r Resource, id int64) error {
	return c.Delete(ctx, r.ItemPath(id))
}

// GetContact fetches one contact.
func (c *Client) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	raw, err := c.GetRecord(ctx, Contacts, id)
	if err != nil {
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	var contact models.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, fmt.Errorf("decode contact %d: %w", id, err)
	}
	return &contact, nil
}

// ListContacts lists contacts matching filters such as type or updated_since.
func (c *Client) ListContacts(ctx context.Context, filters url.Values) ([]models.Contact, error) {
	return fetchList[models.Contact](ctx, c, Contacts.Path, filters, Contacts.Key)
}

// Comments lists the comments on one record.
func (c *Client) Comments(ctx context.Context, resourceType string, id int64) ([]models.Comment, error) {
	params := url.Values{}
	params.Set("resource_id", strconv.FormatInt(id, 10))
	params.Set("resource_type", resourceType)
	return fetchList[models.Comment](ctx, c, "comments", params, "comments")
}

// TaskComments lists the comments on a task.
func (c *Client) TaskComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return c.Comments(ctx, CommentOnTask, taskID)
}

// NotesWithComments lists the notes linked to a contact, each with its
// comments attached.
func (c *Client) NotesWithComments(ctx context.Context, contactID int64) ([]models.Note, error) {
	notes, err := fetchList[models.Note](ctx, c, Notes.Path, contactParams(contactID), Notes.Key)
	if err != nil {
		return nil, fmt.Errorf("list notes for contact %d: %w", contactID, err)
	}
	for i := range notes {
		comments, err := c.Comments(ctx, CommentOnStatusUpdate, notes[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list comments for note %d: %w", notes[i].ID, err)
		}
		notes[i].Comments = comments
	}
	return notes, nil
}

// EventsWithComments lists the events linked to a contact, each with its
// comments attached.
func (c *Client) EventsWithComments(ctx context.Context, contactID int64) ([]models.Event, error) {
	events, err := fetchList[models.Event](ctx, c, Events.Path, contactParams(contactID), Events.Key)
	if err != nil {
		return nil, fmt.Errorf("list events for contact %d: %w", contactID, err)
	}
	for i := range events {
		comments, err := c.Comments(ctx, CommentOnEvent, events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list comments for event %d: %w", events[i].ID, err)
		}
		events[i].Comments = comments
	}
	return events, nil
}

// WorkflowsWithComments lists the active, completed and scheduled workflows
// linked to a contact. Each step carries its comments.
func (c *Client) WorkflowsWithComments(ctx context.Context, contactID int64) ([]models.Workflow, error) {
	var all []models.Workflow
	for _, status := range WorkflowStatuses {
		params := contactParams(contactID)
		params.Set("status", status)
		workflows, err := fetchList[models.Workflow](ctx, c, Workflows.Path, params, Workflows.Key)
		if err != nil {
			return nil, fmt.Errorf("list %s workflows for contact %d: %w", status, contactID, err)
		}
		all = append(all, workflows...)
	}

	for i := range all {
		for j := range all[i].Steps {
			step := &all[i].Steps[j]
			if step.ID == 0 {
				continue
			}
			comments, err := c.Comments(ctx, CommentOnWorkflowStep, step.ID)
			if err != nil {
				return nil, fmt.Errorf("list comments for workflow step %d: %w", step.ID, err)
			}
			step.Comments = comments
		}
	}
	return all, nil
}

// ListTasks lists every task in one completion state, across all contacts.
func (c *Client) ListTasks(ctx context.Context, completed bool) ([]models.Task, error) {
	params := url.Values{}
	params.Set("completed", strconv.FormatBool(completed))
	return fetchList[models.Task](ctx, c, Tasks.Path, params, Tasks.Key)
}

// ListOpportunities lists every opportunity, open and closed.
func (c *Client) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	params := url.Values{}
	params.Set("include_closed", "true")
	return fetchList[models.Opportunity](ctx, c, Opportunities.Path, params, Opportunities.Key)
}

// UpdateWorkflowStep marks a workflow step completed or reverts it.
func (c *Client) UpdateWorkflowStep(ctx context.Context, stepID int64, completed bool) (json.RawMessage, error) {
	path := "workflow_steps/" + strconv.FormatInt(stepID, 10)
	return c.Put(ctx, path, map[string]any{"completed": completed})
}

// AddHouseholdMember adds a contact to a household.
func (c *Client) AddHouseholdMember(ctx context.Context, householdID, contactID int64) (json.RawMessage, error) {
	return c.Post(ctx, "household_members", map[string]any{
		"household_id": householdID,
		"contact_id":   contactID,
	})
}

// RemoveHouseholdMember removes a contact from a household.
func (c *Client) RemoveHouseholdMember(ctx context.Context, householdID, contactID int64) error {
	return c.Delete(ctx, fmt.Sprintf("household_members/%d/%d", householdID, contactID))
}

func contactParams(contactID int64) url.Values {
	params := url.Values{}
	params.Set("resource_id", strconv.FormatInt(contactID, 10))
	params.Set("resource_type", "contact")
	return params
}
