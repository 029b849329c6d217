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

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/wealthbox"
)

func (a *App) newTasksCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Tasks}
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(a.newTasksListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newTasksCreateCmd(r))
	cmd.AddCommand(a.newTasksUpdateCmd(r))
	cmd.AddCommand(r.delete())
	cmd.AddCommand(a.newTasksCompleteCmd(r))
	return cmd
}

func (a *App) newTasksListCmd(r resourceCmds) *cobra.Command {
	var (
		assignedTo            string
		completed, incomplete bool
		contact               int64
		limit                 int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := map[string]string{"assigned_to": assignedTo}
			switch {
			case completed:
				params["completed"] = "true"
			case incomplete:
				params["completed"] = "false"
			}
			if contact != 0 {
				params["resource_id"] = strconv.FormatInt(contact, 10)
				params["resource_type"] = "contact"
			}
			return r.list(cmd, params, limit)
		},
	}
	f := cmd.Flags()
	f.StringVar(&assignedTo, "assigned-to", "", "filter by assigned user id")
	f.BoolVar(&completed, "completed", false, "only completed tasks")
	f.BoolVar(&incomplete, "incomplete", false, "only incomplete tasks")
	f.Int64Var(&contact, "contact", 0, "only tasks linked to this contact")
	f.IntVar(&limit, "limit", 0, "maximum number of tasks")
	cmd.MarkFlagsMutuallyExclusive("completed", "incomplete")
	return cmd
}

func (a *App) newTasksCreateCmd(r resourceCmds) *cobra.Command {
	var (
		name, dueDate, description string
		assignedTo, team, contact  int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{"name": name}
			if dueDate != "" {
				body["due_date"] = dueDate + "T00:00:00Z"
			}
			if assignedTo != 0 {
				body["assigned_to"] = assignedTo
			}
			if team != 0 {
				body["assigned_to_team"] = team
			}
			if contact != 0 {
				body["linked_to"] = linkedContact(contact)
			}
			setIfChanged(cmd, body, "description", "description", description)
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "task name")
	f.StringVar(&dueDate, "due-date", "", "due date (YYYY-MM-DD)")
	f.Int64Var(&assignedTo, "assigned-to", 0, "assigned user id")
	f.Int64Var(&team, "assigned-to-team", 0, "assigned team id")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the task to")
	f.StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) newTasksUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		name, dueDate, description string
		completed                  bool
		sets                       []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			setIfChanged(cmd, body, "name", "name", name)
			if dueDate != "" {
				body["due_date"] = dueDate + "T00:00:00Z"
			}
			if cmd.Flags().Changed("completed") {
				body["completed"] = completed
			}
			setIfChanged(cmd, body, "description", "description", description)
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "task name")
	f.StringVar(&dueDate, "due-date", "", "due date (YYYY-MM-DD)")
	f.BoolVar(&completed, "completed", false, "mark completed (--completed=false to reopen)")
	f.StringVar(&description, "description", "", "description")
	f.StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	return cmd
}

func (a *App) newTasksCompleteCmd(r resourceCmds) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			return r.update(cmd, id, map[string]any{"completed": true})
		},
	}
}
