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
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/wealthbox"
)

func (a *App) newWorkflowsCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Workflows}
	cmd := &cobra.Command{
		Use:     "workflows",
		Aliases: []string{"workflow"},
		Short:   "Manage workflows",
	}
	cmd.AddCommand(a.newWorkflowsListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newWorkflowTemplatesCmd())
	cmd.AddCommand(a.newWorkflowsCreateCmd(r))
	cmd.AddCommand(r.delete())
	cmd.AddCommand(a.newWorkflowStepCmd("complete-step", "Mark a workflow step completed", true))
	cmd.AddCommand(a.newWorkflowStepCmd("revert-step", "Revert a completed workflow step", false))
	return cmd
}

func (a *App) newWorkflowsListCmd(r resourceCmds) *cobra.Command {
	var (
		contact int64
		status  string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" && !slices.Contains(wealthbox.WorkflowStatuses, status) {
				return usageErrorf("invalid --status %q: must be one of %s", status, strings.Join(wealthbox.WorkflowStatuses, ", "))
			}
			params := contactFilter(contact)
			params["status"] = status
			return r.list(cmd, params, limit)
		},
	}
	f := cmd.Flags()
	f.Int64Var(&contact, "contact", 0, "only workflows linked to this contact")
	f.StringVar(&status, "status", "", "active, completed or scheduled")
	f.IntVar(&limit, "limit", 0, "maximum number of workflows")
	return cmd
}

func (a *App) newWorkflowTemplatesCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.WorkflowTemplates}
	return &cobra.Command{
		Use:   "templates",
		Short: "List workflow templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.list(cmd, nil, 0)
		},
	}
}

func (a *App) newWorkflowsCreateCmd(r resourceCmds) *cobra.Command {
	var (
		template, contact int64
		name              string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a workflow from a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{
				"template_id": template,
				"linked_to":   linkedContact(contact),
			}
			setIfChanged(cmd, body, "name", "name", name)
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.Int64Var(&template, "template", 0, "workflow template id")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the workflow to")
	f.StringVar(&name, "name", "", "override the workflow name")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("link-contact")
	return cmd
}

func (a *App) newWorkflowStepCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <step_id>", use),
		Short: short,
		Args:  idArgs("step_id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("step_id", args[0])
			ok, err := a.guardWrite(cmd)
			if !ok {
				return err
			}
			client, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			data, err := client.UpdateWorkflowStep(cmd.Context(), id, completed)
			if err != nil {
				return err
			}
			return a.emit(cmd.Context(), data)
		},
	}
}
