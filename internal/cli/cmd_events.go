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

func (a *App) newEventsCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Events}
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Manage calendar events",
	}
	cmd.AddCommand(a.newEventsListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newEventsCreateCmd(r))
	cmd.AddCommand(a.newEventsUpdateCmd(r))
	cmd.AddCommand(r.delete())
	return cmd
}

func (a *App) newEventsListCmd(r resourceCmds) *cobra.Command {
	var (
		contact int64
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.list(cmd, contactFilter(contact), limit)
		},
	}
	cmd.Flags().Int64Var(&contact, "contact", 0, "only events linked to this contact")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events")
	return cmd
}

func (a *App) newEventsCreateCmd(r resourceCmds) *cobra.Command {
	var (
		name, start, end, location, fromJSON string
		allDay                               bool
		contact                              int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
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
			body["starts_at"] = start
			setIfChanged(cmd, body, "end", "ends_at", end)
			if allDay {
				body["all_day"] = true
			}
			setIfChanged(cmd, body, "location", "location", location)
			if contact != 0 {
				body["linked_to"] = linkedContact(contact)
			}
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "event name")
	f.StringVar(&start, "start", "", "start time")
	f.StringVar(&end, "end", "", "end time")
	f.BoolVar(&allDay, "all-day", false, "all-day event")
	f.StringVar(&location, "location", "", "location")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the event to")
	f.StringVar(&fromJSON, "from-json", "", "request body as JSON or @file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func (a *App) newEventsUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		name, start, end, location string
		sets                       []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an event",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			setIfChanged(cmd, body, "name", "name", name)
			setIfChanged(cmd, body, "start", "starts_at", start)
			setIfChanged(cmd, body, "end", "ends_at", end)
			setIfChanged(cmd, body, "location", "location", location)
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "event name")
	f.StringVar(&start, "start", "", "start time")
	f.StringVar(&end, "end", "", "end time")
	f.StringVar(&location, "location", "", "location")
	f.StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	return cmd
}

// contactFilter restricts a list to records linked to contact, if set.
func contactFilter(contact int64) map[string]string {
	if contact == 0 {
		return map[string]string{}
	}
	return map[string]string{
		"resource_id":   strconv.FormatInt(contact, 10),
		"resource_type": "contact",
	}
}
