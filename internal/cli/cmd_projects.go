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
	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/wealthbox"
)

func (a *App) newProjectsCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Projects}
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.list(cmd, nil, limit)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of projects")

	cmd.AddCommand(list)
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newProjectsCreateCmd(r))
	cmd.AddCommand(a.newProjectsUpdateCmd(r))
	cmd.AddCommand(r.delete())
	return cmd
}

func (a *App) newProjectsCreateCmd(r resourceCmds) *cobra.Command {
	var (
		name, description, fromJSON string
		contact                     int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{}
			if fromJSON != "" {
				b, err := loadBody(fromJSON)
				if err != nil {
					return err
				}
				body = b
			}
			body["name"] = name
			if contact != 0 {
				body["linked_to"] = linkedContact(contact)
			}
			setIfChanged(cmd, body, "description", "description", description)
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "project name")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the project to")
	f.StringVar(&description, "description", "", "project description")
	f.StringVar(&fromJSON, "from-json", "", "request body as JSON or @file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) newProjectsUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		name, description string
		sets              []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			setIfChanged(cmd, body, "name", "name", name)
			setIfChanged(cmd, body, "description", "description", description)
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "project name")
	f.StringVar(&description, "description", "", "project description")
	f.StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	return cmd
}
