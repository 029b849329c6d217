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
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Comment is attached to a note, task, event or workflow step.
type Comment struct {
	ID        int64   `json:"id,omitempty"`
	Creator   UserRef `json:"creator"`
	CreatedAt string  `json:"created_at,omitempty"`
	Body      Body    `json:"body"`
}

// Note is a WealthBox status update. The API lists notes under the
// "status_updates" key.
type Note struct {
	ID        int64     `json:"id"`
	Creator   UserRef   `json:"creator"`
	CreatedAt string    `json:"created_at,omitempty"`
	UpdatedAt string    `json:"updated_at,omitempty"`
	Content   Body      `json:"content"`
	LinkedTo  Links     `json:"linked_to,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Older payloads carry the text
// under "body" instead of "content".
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Note(p)
	if !gjson.GetBytes(data, "content").Exists() {
		if raw := gjson.GetBytes(data, "body"); raw.Exists() {
			_ = n.Content.UnmarshalJSON([]byte(raw.Raw))
		}
	}
	return nil
}

// Task is a to-do item. Its completion flag is spelled "completed" or
// "complete" depending on the endpoint.
type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DueDate     string    `json:"due_date,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	Completed   bool      `json:"completed"`
	Creator     UserRef   `json:"creator"`
	AssignedTo  UserRef   `json:"assigned_to"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	LinkedTo    Links     `json:"linked_to,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	p := struct {
		*plain
		Completed json.RawMessage `json:"completed"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	flag := gjson.GetBytes(data, "completed")
	if !flag.Exists() {
		flag = gjson.GetBytes(data, "complete")
	}
	t.Completed = flag.Bool()
	return nil
}

// Event is a calendar entry.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartsAt    string    `json:"starts_at,omitempty"`
	EndsAt      string    `json:"ends_at,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Creator     UserRef   `json:"creator"`
	LinkedTo    Links     `json:"linked_to,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Workflow is an instantiated workflow template with ordered steps.
type Workflow struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Status    string         `json:"status,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Creator   UserRef        `json:"creator"`
	LinkedTo  Links          `json:"linked_to,omitempty"`
	Steps     []WorkflowStep `json:"workflow_steps,omitempty"`
}

// WorkflowStep is one step of a workflow.
type WorkflowStep struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Completed  Flag      `json:"completed"`
	DueDate    string    `json:"due_date,omitempty"`
	AssignedTo UserRef   `json:"assigned_to"`
	Comments   []Comment `json:"comments,omitempty"`
}

// Opportunity is a sales pipeline item.
//
// CloseDate is the deprecated predecessor of TargetClose. It is decoded for
// completeness but never used for ordering or display.
type Opportunity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	CreatedAt   string   `json:"created_at,omitempty"`
	TargetClose string   `json:"target_close,omitempty"`
	CloseDate   string   `json:"close_date,omitempty"`
	Stage       Stage    `json:"stage"`
	Probability Text     `json:"probability,omitempty"`
	Amounts     []Amount `json:"amounts,omitempty"`
	Amount      Money    `json:"amount"`
	Value       Money    `json:"value"`
	Creator     UserRef  `json:"creator"`
	Manager     UserRef  `json:"manager"`
	LinkedTo    Links    `json:"linked_to,omitempty"`
}

// Amount is one entry of an opportunity's amounts list.
type Amount struct {
	Amount Money  `json:"amount"`
	Kind   string `json:"kind,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-empty "stage_name" takes
// precedence over "stage".
func (o *Opportunity) UnmarshalJSON(data []byte) error {
	type plain Opportunity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Opportunity(p)
	if name := gjson.GetBytes(data, "stage_name").String(); name != "" {
		o.Stage = Stage{Name: name}
	}
	return nil
}

// DisplayAmount returns the amount shown beside the opportunity name, or ""
// when there is none. The first amounts entry wins over the legacy
// amount/value fields. Numbers are formatted as whole dollars; strings that
// are not numbers are shown verbatim.
func (o *Opportunity) DisplayAmount() string {
	if len(o.Amounts) > 0 {
		first := o.Amounts[0].Amount
		if !first.IsZero() {
			if first.Numeric {
				return Currency(first.Number)
			}
			return first.Raw
		}
	}

	legacy := o.Amount
	if legacy.IsZero() {
		legacy = o.Value
	}
	if legacy.IsZero() {
		return ""
	}
	if f, ok := legacy.Float(); ok {
		return Currency(f)
	}
	return legacy.Raw
}
