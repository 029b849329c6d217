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
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/bcem/wealthbox/internal/models"
)

// --- Fake source ---

type fakeSource struct {
	mu sync.Mutex

	contacts     map[int64]models.Contact
	order        []int64 // list order of contacts
	updated      []models.Contact
	notes        map[int64][]models.Note
	events       map[int64][]models.Event
	workflows    map[int64][]models.Workflow
	tasks        map[bool][]models.Task
	opps         []models.Opportunity
	taskComments map[int64][]models.Comment
	users        models.UserMap

	getErr map[int64]error

	calls   map[string]int
	filters []url.Values
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		contacts:     map[int64]models.Contact{},
		notes:        map[int64][]models.Note{},
		events:       map[int64][]models.Event{},
		workflows:    map[int64][]models.Workflow{},
		tasks:        map[bool][]models.Task{},
		taskComments: map[int64][]models.Comment{},
		users:        models.UserMap{},
		getErr:       map[int64]error{},
		calls:        map[string]int{},
	}
}

func (f *fakeSource) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// addContact decodes raw JSON so tests exercise the tolerant decoders.
func (f *fakeSource) addContact(t *testing.T, raw string) models.Contact {
	t.Helper()
	var c models.Contact
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("decode contact: %v", err)
	}
	f.contacts[c.ID] = c
	f.order = append(f.order, c.ID)
	return c
}

func (f *fakeSource) GetContact(_ context.Context, id int64) (*models.Contact, error) {
	f.count("GetContact")
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	c, ok := f.contacts[id]
	if !ok {
		return nil, fmt.Errorf("contact %d not found", id)
	}
	return &c, nil
}

func (f *fakeSource) ListContacts(_ context.Context, filters url.Values) ([]models.Contact, error) {
	f.count("ListContacts")
	f.mu.Lock()
	f.filters = append(f.filters, filters)
	f.mu.Unlock()
	if filters.Get("updated_since") != "" {
		return f.updated, nil
	}
	var out []models.Contact
	for _, id := range f.order {
		c := f.contacts[id]
		if typ := filters.Get("type"); typ != "" && c.Type != typ {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeSource) NotesWithComments(_ context.Context, id int64) ([]models.Note, error) {
	f.count("NotesWithComments")
	return f.notes[id], nil
}

func (f *fakeSource) EventsWithComments(_ context.Context, id int64) ([]models.Event, error) {
	f.count("EventsWithComments")
	return f.events[id], nil
}

func (f *fakeSource) WorkflowsWithComments(_ context.Context, id int64) ([]models.Workflow, error) {
	f.count("WorkflowsWithComments")
	return f.workflows[id], nil
}

func (f *fakeSource) ListTasks(_ context.Context, completed bool) ([]models.Task, error) {
	f.count("ListTasks")
	return f.tasks[completed], nil
}

func (f *fakeSource) ListOpportunities(context.Context) ([]models.Opportunity, error) {
	f.count("ListOpportunities")
	return f.opps, nil
}

func (f *fakeSource) TaskComments(_ context.Context, taskID int64) ([]models.Comment, error) {
	f.count("TaskComments")
	return f.taskComments[taskID], nil
}

func (f *fakeSource) UserMap(context.Context, string) (models.UserMap, error) {
	f.count("UserMap")
	return f.users, nil
}

// --- Decoding helpers ---

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}
