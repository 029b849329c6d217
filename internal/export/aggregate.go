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
	"fmt"
	"log/slog"

	"github.com/bcem/wealthbox/internal/models"
)

// Activity is the deduplicated history of a set of contacts, with user
// references resolved to display names.
type Activity struct {
	Notes         []models.Note
	Tasks         []models.Task
	Events        []models.Event
	Workflows     []models.Workflow
	Opportunities []models.Opportunity
}

// GatherActivity collects the activity of every member. Notes, events and
// workflows are fetched per member; tasks and opportunities come from the
// firm-wide lists in cache and are kept when linked to a member or to the
// household (householdID 0 means none). Every stream is deduplicated by id,
// first occurrence wins. A nil cache is a fresh single-use cache.
func GatherActivity(ctx context.Context, src Source, members []models.Contact, householdID int64, cache *Cache) (*Activity, error) {
	if cache == nil {
		cache = NewCache()
	}

	linked := make(map[int64]bool, len(members)+1)
	for _, m := range members {
		linked[m.ID] = true
	}
	if householdID != 0 {
		linked[householdID] = true
	}

	act := &Activity{}
	seenNotes := map[int64]bool{}
	seenEvents := map[int64]bool{}
	seenWorkflows := map[int64]bool{}

	for _, m := range members {
		notes, err := src.NotesWithComments(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("notes for contact %d: %w", m.ID, err)
		}
		for _, n := range notes {
			if !seenNotes[n.ID] {
				seenNotes[n.ID] = true
				act.Notes = append(act.Notes, n)
			}
		}

		events, err := src.EventsWithComments(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("events for contact %d: %w", m.ID, err)
		}
		for _, e := range events {
			if !seenEvents[e.ID] {
				seenEvents[e.ID] = true
				act.Events = append(act.Events, e)
			}
		}

		workflows, err := src.WorkflowsWithComments(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("workflows for contact %d: %w", m.ID, err)
		}
		for _, w := range workflows {
			if !seenWorkflows[w.ID] {
				seenWorkflows[w.ID] = true
				act.Workflows = append(act.Workflows, w)
			}
		}
	}

	// The tasks endpoint ignores contact scoping, so the firm-wide list is
	// filtered by linked_to instead.
	tasks, err := cache.Tasks(ctx, src)
	if err != nil {
		return nil, err
	}
	seenTasks := map[int64]bool{}
	for _, t := range tasks {
		if seenTasks[t.ID] || !t.LinkedTo.Intersects(linked) {
			continue
		}
		seenTasks[t.ID] = true
		comments, err := cache.TaskComments(ctx, src, t.ID)
		if err != nil {
			return nil, err
		}
		task := t
		task.Comments = append([]models.Comment(nil), comments...)
		act.Tasks = append(act.Tasks, task)
	}

	opps, err := cache.Opportunities(ctx, src)
	if err != nil {
		return nil, err
	}
	seenOpps := map[int64]bool{}
	for _, o := range opps {
		if seenOpps[o.ID] || !o.LinkedTo.Intersects(linked) {
			continue
		}
		seenOpps[o.ID] = true
		act.Opportunities = append(act.Opportunities, o)
	}

	users, err := cache.Users(ctx, src)
	if err != nil {
		return nil, err
	}
	act.resolveUsers(users)

	slog.Debug("activity gathered",
		"members", len(members),
		"notes", len(act.Notes),
		"tasks", len(act.Tasks),
		"events", len(act.Events),
		"workflows", len(act.Workflows),
		"opportunities", len(act.Opportunities),
	)

	return act, nil
}

func (a *Activity) resolveUsers(users models.UserMap) {
	for i := range a.Notes {
		a.Notes[i].ResolveUsers(users)
	}
	for i := range a.Tasks {
		a.Tasks[i].ResolveUsers(users)
	}
	for i := range a.Events {
		a.Events[i].ResolveUsers(users)
	}
	for i := range a.Workflows {
		a.Workflows[i].ResolveUsers(users)
	}
	for i := range a.Opportunities {
		a.Opportunities[i].ResolveUsers(users)
	}
}
