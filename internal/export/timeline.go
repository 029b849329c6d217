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
	"sort"
	"time"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/wbtime"
)

// Kind tags a timeline entry with its activity type.
type Kind string

// Activity kinds.
const (
	KindNote        Kind = "note"
	KindTask        Kind = "task"
	KindEvent       Kind = "event"
	KindWorkflow    Kind = "workflow"
	KindOpportunity Kind = "opportunity"
)

// Entry is one item of the merged timeline. Exactly one of the item pointers
// is set, matching Kind.
type Entry struct {
	Kind Kind
	// SortDate is the primary date of the item, else its created_at. It is
	// meaningful only when HasDate is true.
	SortDate time.Time
	HasDate  bool

	Note        *models.Note
	Task        *models.Task
	Event       *models.Event
	Workflow    *models.Workflow
	Opportunity *models.Opportunity
}

// MergeTimeline merges every activity stream into one list, newest first.
// Items without a usable date sort after all dated items; ties keep their
// stream order (notes, tasks, events, workflows, opportunities).
func MergeTimeline(act *Activity) []Entry {
	if act == nil {
		return nil
	}
	entries := make([]Entry, 0,
		len(act.Notes)+len(act.Tasks)+len(act.Events)+len(act.Workflows)+len(act.Opportunities))

	for i := range act.Notes {
		n := &act.Notes[i]
		entries = append(entries, dated(Entry{Kind: KindNote, Note: n}, n.CreatedAt, n.CreatedAt))
	}
	for i := range act.Tasks {
		t := &act.Tasks[i]
		entries = append(entries, dated(Entry{Kind: KindTask, Task: t}, t.DueDate, t.CreatedAt))
	}
	for i := range act.Events {
		e := &act.Events[i]
		entries = append(entries, dated(Entry{Kind: KindEvent, Event: e}, e.StartsAt, e.CreatedAt))
	}
	for i := range act.Workflows {
		w := &act.Workflows[i]
		entries = append(entries, dated(Entry{Kind: KindWorkflow, Workflow: w}, w.CreatedAt, w.CreatedAt))
	}
	for i := range act.Opportunities {
		o := &act.Opportunities[i]
		entries = append(entries, dated(Entry{Kind: KindOpportunity, Opportunity: o}, o.TargetClose, o.CreatedAt))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HasDate != b.HasDate {
			return a.HasDate
		}
		return a.HasDate && a.SortDate.After(b.SortDate)
	})
	return entries
}

func dated(e Entry, primary, created string) Entry {
	if t, ok := wbtime.Parse(primary); ok {
		e.SortDate, e.HasDate = t, true
	} else if t, ok := wbtime.Parse(created); ok {
		e.SortDate, e.HasDate = t, true
	}
	return e
}
