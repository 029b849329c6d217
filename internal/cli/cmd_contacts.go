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

func (a *App) newContactsCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Contacts}
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage contacts",
	}
	cmd.AddCommand(a.newContactsListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newContactsSearchCmd(r))
	cmd.AddCommand(a.newContactsCreateCmd(r))
	cmd.AddCommand(a.newContactsUpdateCmd(r))
	cmd.AddCommand(r.delete())
	cmd.AddCommand(a.newContactsAddMemberCmd())
	cmd.AddCommand(a.newContactsRemoveMemberCmd())
	cmd.AddCommand(a.newContactsExportCmd())
	cmd.AddCommand(a.newContactsExportAllCmd())
	cmd.AddCommand(a.newContactsExportHistoryCmd())
	return cmd
}

func (a *App) newContactsListCmd(r resourceCmds) *cobra.Command {
	var (
		kind, contactType, tag, search, updatedSince string
		limit                                        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.list(cmd, map[string]string{
				"type":          kind,
				"contact_type":  contactType,
				"tags":          tag,
				"name":          search,
				"updated_since": updatedSince,
			}, limit)
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "type", "", "Person, Household, Organization or Trust")
	f.StringVar(&contactType, "contact-type", "", "Client, Prospect, ...")
	f.StringVar(&tag, "tag", "", "filter by tag")
	f.StringVar(&search, "search", "", "filter by name")
	f.StringVar(&updatedSince, "updated-since", "", "only contacts updated since this time")
	f.IntVar(&limit, "limit", 0, "maximum number of contacts")
	return cmd
}

func (a *App) newContactsSearchCmd(r resourceCmds) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.list(cmd, map[string]string{"name": args[0]}, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of contacts")
	return cmd
}

func (a *App) newContactsCreateCmd(r resourceCmds) *cobra.Command {
	var (
		firstName, lastName, kind, contactType string
		email, phone, birthDate, fromJSON      string
		tags                                   []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
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
			setIfChanged(cmd, body, "first-name", "first_name", firstName)
			setIfChanged(cmd, body, "last-name", "last_name", lastName)
			if _, ok := body["type"]; !ok || cmd.Flags().Changed("type") {
				body["type"] = kind
			}
			setIfChanged(cmd, body, "contact-type", "contact_type", contactType)
			setIfChanged(cmd, body, "birth-date", "birth_date", birthDate)
			if email != "" {
				body["email_addresses"] = []map[string]any{{"address": email, "principal": true, "kind": "Work"}}
			}
			if phone != "" {
				body["phone_numbers"] = []map[string]any{{"address": phone, "principal": true, "kind": "Mobile"}}
			}
			if len(tags) > 0 {
				body["tags"] = tagList(tags)
			}
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "first name")
	f.StringVar(&lastName, "last-name", "", "last name")
	f.StringVar(&kind, "type", "Person", "Person, Household, Organization or Trust")
	f.StringVar(&contactType, "contact-type", "", "Client, Prospect, ...")
	f.StringVar(&email, "email", "", "work email address")
	f.StringVar(&phone, "phone", "", "mobile phone number")
	f.StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	f.StringArrayVar(&tags, "tag", nil, "tag (repeatable)")
	f.StringVar(&fromJSON, "from-json", "", "request body as JSON or @file")
	return cmd
}

func (a *App) newContactsUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		firstName, lastName, contactType, email, phone, fromJSON string
		sets                                                     []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			if fromJSON != "" {
				b, err := loadBody(fromJSON)
				if err != nil {
					return err
				}
				body = b
			}
			setIfChanged(cmd, body, "first-name", "first_name", firstName)
			setIfChanged(cmd, body, "last-name", "last_name", lastName)
			setIfChanged(cmd, body, "contact-type", "contact_type", contactType)
			if email != "" {
				body["email_addresses"] = []map[string]any{{"address": email, "principal": true, "kind": "Work"}}
			}
			if phone != "" {
				body["phone_numbers"] = []map[string]any{{"address": phone, "principal": true, "kind": "Mobile"}}
			}
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "first name")
	f.StringVar(&lastName, "last-name", "", "last name")
	f.StringVar(&contactType, "contact-type", "", "Client, Prospect, ...")
	f.StringVar(&email, "email", "", "work email address")
	f.StringVar(&phone, "phone", "", "mobile phone number")
	f.StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	f.StringVar(&fromJSON, "from-json", "", "request body as JSON or @file")
	return cmd
}

func (a *App) newContactsAddMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <household_id> <contact_id>",
		Short: "Add a contact to a household",
		Args:  idArgs("household_id", "contact_id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			hh, _ := parseID("household_id", args[0])
			contact, _ := parseID("contact_id", args[1])
			ok, err := a.guardWrite(cmd)
			if !ok {
				return err
			}
			client, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			data, err := client.AddHouseholdMember(cmd.Context(), hh, contact)
			if err != nil {
				return err
			}
			return a.emit(cmd.Context(), data)
		},
	}
}

func (a *App) newContactsRemoveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <household_id> <contact_id>",
		Short: "Remove a contact from a household",
		Args:  idArgs("household_id", "contact_id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			hh, _ := parseID("household_id", args[0])
			contact, _ := parseID("contact_id", args[1])
			ok, err := a.guardWrite(cmd)
			if !ok {
				return err
			}
			client, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.RemoveHouseholdMember(cmd.Context(), hh, contact); err != nil {
				return err
			}
			a.println("Contact " + args[1] + " removed from household " + args[0] + ".")
			return nil
		},
	}
}
