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
	"net/url"
	"sort"
	"time"

	"github.com/bcem/wealthbox/internal/wbtime"
)

// DefaultLookbackDays bounds how old a task may be for its comments to be
// checked for changes.
const DefaultLookbackDays = 30

// Selection is the set of contacts a run exports: either every contact or
// an explicit (possibly empty) set of ids.
type Selection struct {
	all bool
	ids map[int64]bool
}

// ExportAll selects every contact.
func ExportAll() Selection { return Selection{all: true} }

// Dirty selects exactly ids.
func Dirty(ids ...int64) Selection {
	s := Selection{ids: make(map[int64]bool, len(ids))}
	s.add(ids...)
	return s
}

// All reports whether every contact is selected.
func (s Selection) All() bool { return s.all }

// Contains reports whether id is selected.
func (s Selection) Contains(id int64) bool { return s.all || s.ids[id] }

// Len is the number of explicitly selected ids; zero for ExportAll.
func (s Selection) Len() int { return len(s.ids) }

// IDs returns the explicitly selected ids in ascending order.
func (s Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Selection) add(ids ...int64) {
	if s.ids == nil {
		s.ids = make(map[int64]bool, len(ids))
	}
	for _, id := range ids {
		if id != 0 {
			s.ids[id] = true
		}
	}
}

// FindDirtyContacts returns the contacts that changed since lastExport. A
// nil lastExport means a first run and selects everything. Otherwise a
// contact is dirty when:
//
//   - it was updated since lastExport (its household is marked too);
//   - a task or opportunity linked to it was created after lastExport;
//   - a task linked to it, created within lookbackDays before lastExport or
//     later, got a comment after lastExport.
func FindDirtyContacts(ctx context.Context, src Source, lastExport *time.Time, cache *Cache, lookbackDays int) (Selection, error) {
	if lastExport == nil {
		return ExportAll(), nil
	}
	if cache == nil {
		cache = NewCache()
	}
	since := *lastExport
	dirty := Dirty()

	filters := url.Values{}
	filters.Set("updated_since", since.UTC().Format(time.RFC3339))
	updated, err := src.ListContacts(ctx, filters)
	if err != nil {
		return Selection{}, fmt.Errorf("list contacts updated since %s: %w", since.Format(time.RFC3339), err)
	}
	for _, c := range updated {
		dirty.add(c.ID, c.Household.ID)
	}
	byContact := dirty.Len()

	tasks, err := cache.Tasks(ctx, src)
	if err != nil {
		return Selection{}, err
	}
	for _, t := range tasks {
		if wbtime.IsAfter(t.CreatedAt, since) {
			dirty.add(t.LinkedTo.IDs()...)
		}
	}

	opps, err := cache.Opportunities(ctx, src)
	if err != nil {
		return Selection{}, err
	}
	for _, o := range opps {
		if wbtime.IsAfter(o.CreatedAt, since) {
			dirty.add(o.LinkedTo.IDs()...)
		}
	}

	cutoff := since.AddDate(0, 0, -lookbackDays)
	checked := 0
	for _, t := range tasks {
		created, ok := wbtime.Parse(t.CreatedAt)
		if !ok || created.Before(cutoff) {
			continue
		}
		checked++
		comments, err := cache.TaskComments(ctx, src, t.ID)
		if err != nil {
			return Selection{}, err
		}
		for _, c := range comments {
			if wbtime.IsAfter(c.CreatedAt, since) {
				dirty.add(t.LinkedTo.IDs()...)
				break
			}
		}
	}

	slog.Info("dirty contacts computed",
		"since", since.Format(time.RFC3339),
		"updated_contacts", byContact,
		"tasks_checked_for_comments", checked,
		"dirty", dirty.Len(),
	)
	return dirty, nil
}
