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

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

// Cache memoises firm-wide data for the duration of one batch run: the user
// map, every task in both completion states, every opportunity, and task
// comments by task id. Each list is fetched on first use.
//
// Values handed out are shared; callers copy before modifying. A Cache is
// not safe for concurrent use.
type Cache struct {
	users models.UserMap

	tasks       []models.Task
	tasksLoaded bool

	opps       []models.Opportunity
	oppsLoaded bool

	taskComments map[int64][]models.Comment
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{taskComments: make(map[int64][]models.Comment)}
}

// Users returns the user id to display name map.
func (c *Cache) Users(ctx context.Context, src Source) (models.UserMap, error) {
	if c.users == nil {
		users, err := src.UserMap(ctx, wealthbox.UserMapName)
		if err != nil {
			return nil, fmt.Errorf("load user map: %w", err)
		}
		if users == nil {
			users = models.UserMap{}
		}
		c.users = users
	}
	return c.users, nil
}

// Tasks returns incomplete tasks followed by completed ones.
func (c *Cache) Tasks(ctx context.Context, src Source) ([]models.Task, error) {
	if !c.tasksLoaded {
		var all []models.Task
		for _, completed := range []bool{false, true} {
			tasks, err := src.ListTasks(ctx, completed)
			if err != nil {
				return nil, fmt.Errorf("list tasks (completed=%t): %w", completed, err)
			}
			all = append(all, tasks...)
		}
		c.tasks = all
		c.tasksLoaded = true
	}
	return c.tasks, nil
}

// Opportunities returns every opportunity.
func (c *Cache) Opportunities(ctx context.Context, src Source) ([]models.Opportunity, error) {
	if !c.oppsLoaded {
		opps, err := src.ListOpportunities(ctx)
		if err != nil {
			return nil, fmt.Errorf("list opportunities: %w", err)
		}
		c.opps = opps
		c.oppsLoaded = true
	}
	return c.opps, nil
}

// TaskComments returns the comments on one task.
func (c *Cache) TaskComments(ctx context.Context, src Source, taskID int64) ([]models.Comment, error) {
	if comments, ok := c.taskComments[taskID]; ok {
		return comments, nil
	}
	comments, err := src.TaskComments(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments for task %d: %w", taskID, err)
	}
	c.taskComments[taskID] = comments
	return comments, nil
}
