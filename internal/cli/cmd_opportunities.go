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

func (a *App) newOpportunitiesCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Opportunities}
	cmd := &cobra.Command{
		Use:     "opportunities",
		Aliases: []string{"opportunity", "opps"},
		Short:   "Manage opportunities",
	}
	cmd.AddCommand(a.newOpportunitiesListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newOpportunitiesCreateCmd(r))
	cmd.AddCommand(a.newOpportunitiesUpdateCmd(r))
	cmd.AddCommand(r.delete())
	return cmd
}

func (a *App) newOpportunitiesListCmd(r resourceCmds) *cobra.Command {
	var (
		contact       int64
		order         string
		includeClosed bool
		limit         int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List opportunities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if order != "asc" && order != "desc" {
				return usageErrorf("invalid --order %q: must be asc or desc", order)
			}
			params := contactFilter(contact)
			params["order"] = order
			params["include_closed"] = strconv.FormatBool(includeClosed)
			return r.list(cmd, params, limit)
		},
	}
	f := cmd.Flags()
	f.Int64Var(&contact, "contact", 0, "only opportunities linked to this contact")
	f.StringVar(&order, "order", "asc", "sort order, asc or desc")
	f.BoolVar(&includeClosed, "include-closed", true, "include closed opportunities (--include-closed=false to exclude)")
	f.IntVar(&limit, "limit", 0, "maximum number of opportunities")
	return cmd
}

func (a *App) newOpportunitiesCreateCmd(r resourceCmds) *cobra.Command {
	var (
		name, stage, closeDate, fromJSON string
		value                            float64
		contact                          int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an opportunity",
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
			if cmd.Flags().Changed("value") {
				body["value"] = value
			}
			setIfChanged(cmd, body, "stage", "stage", stage)
			if contact != 0 {
				body["linked_to"] = linkedContact(contact)
			}
			setIfChanged(cmd, body, "close-date", "close_date", closeDate)
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "opportunity name")
	f.Float64Var(&value, "value", 0, "dollar value")
	f.StringVar(&stage, "stage", "", "pipeline stage")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the opportunity to")
	f.StringVar(&closeDate, "close-date", "", "expected close date (YYYY-MM-DD)")
	f.StringVar(&fromJSON, "from-json", "", "request body as JSON or @file")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) newOpportunitiesUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		name, stage string
		value       float64
		sets        []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an opportunity",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			setIfChanged(cmd, body, "name", "name", name)
			if cmd.Flags().Changed("value") {
				body["value"] = value
			}
			setIfChanged(cmd, body, "stage", "stage", stage)
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "opportunity name")
	f.Float64Var(&value, "value", 0, "dollar value")
	f.StringVar(&stage, "stage", "", "pipeline stage")
	f.StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	return cmd
}
