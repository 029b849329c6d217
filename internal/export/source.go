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

// Package export renders a contact, its household and its full activity
// history into a QMD-compatible markdown document, and drives incremental
// exports of many contacts into one directory.
//
// A single export proceeds in four stages: household resolution, activity
// gathering across every member, a reverse-chronological merge of the five
// activity streams, and rendering. Firm-wide lists (users, tasks,
// opportunities) are memoised in a Cache so a batch run fetches them once.
package export

import (
	"context"
	"net/url"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

// Source is the part of the WealthBox API the export engine reads from.
type Source interface {
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	ListContacts(ctx context.Context, filters url.Values) ([]models.Contact, error)
	NotesWithComments(ctx context.Context, contactID int64) ([]models.Note, error)
	EventsWithComments(ctx context.Context, contactID int64) ([]models.Event, error)
	WorkflowsWithComments(ctx context.Context, contactID int64) ([]models.Workflow, error)
	ListTasks(ctx context.Context, completed bool) ([]models.Task, error)
	ListOpportunities(ctx context.Context) ([]models.Opportunity, error)
	TaskComments(ctx context.Context, taskID int64) ([]models.Comment, error)
	UserMap(ctx context.Context, method string) (models.UserMap, error)
}

var _ Source = (*wealthbox.Client)(nil)
