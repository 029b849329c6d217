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

// ResolveUsers replaces a numeric creator reference with its display name.
// Unknown ids are left as they are; the same holds for every type below.
func (c *Comment) ResolveUsers(users UserMap) {
	c.Creator.Resolve(users)
}

// ResolveUsers resolves the note creator and its comments.
func (n *Note) ResolveUsers(users UserMap) {
	n.Creator.Resolve(users)
	resolveComments(n.Comments, users)
}

// ResolveUsers resolves the creator, assignee and comments of a task.
func (t *Task) ResolveUsers(users UserMap) {
	t.Creator.Resolve(users)
	t.AssignedTo.Resolve(users)
	resolveComments(t.Comments, users)
}

// ResolveUsers resolves the event creator and its comments.
func (e *Event) ResolveUsers(users UserMap) {
	e.Creator.Resolve(users)
	resolveComments(e.Comments, users)
}

// ResolveUsers resolves the workflow creator and every step.
func (w *Workflow) ResolveUsers(users UserMap) {
	w.Creator.Resolve(users)
	for i := range w.Steps {
		w.Steps[i].AssignedTo.Resolve(users)
		resolveComments(w.Steps[i].Comments, users)
	}
}

// ResolveUsers resolves the opportunity creator and manager.
func (o *Opportunity) ResolveUsers(users UserMap) {
	o.Creator.Resolve(users)
	o.Manager.Resolve(users)
}

func resolveComments(comments []Comment, users UserMap) {
	for i := range comments {
		comments[i].ResolveUsers(users)
	}
}
