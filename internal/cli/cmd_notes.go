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
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/wealthbox"
)

func (a *App) newNotesCmd() *cobra.Command {
	r := resourceCmds{app: a, res: wealthbox.Notes}
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage notes",
	}
	cmd.AddCommand(a.newNotesListCmd(r))
	cmd.AddCommand(r.get())
	cmd.AddCommand(a.newNotesCreateCmd(r))
	cmd.AddCommand(a.newNotesUpdateCmd(r))
	cmd.AddCommand(r.delete())
	return cmd
}

func (a *App) newNotesListCmd(r resourceCmds) *cobra.Command {
	var (
		contact int64
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the notes of a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.list(cmd, map[string]string{
				"resource_id":   strconv.FormatInt(contact, 10),
				"resource_type": "contact",
			}, limit)
		},
	}
	cmd.Flags().Int64Var(&contact, "contact", 0, "contact id")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of notes")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

func (a *App) newNotesCreateCmd(r resourceCmds) *cobra.Command {
	var (
		content   string
		contact   int64
		visibleTo string
		tags      []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note linked to a contact",
		Long:  `Pass --content - to read the note from stdin.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.readContent(content)
			if err != nil {
				return err
			}
			body := map[string]any{
				"content":   text,
				"linked_to": linkedContact(contact),
			}
			setIfChanged(cmd, body, "visible-to", "visible_to", visibleTo)
			if len(tags) > 0 {
				body["tags"] = tagList(tags)
			}
			return r.create(cmd, body)
		},
	}
	f := cmd.Flags()
	f.StringVar(&content, "content", "", "note content, or - for stdin")
	f.Int64Var(&contact, "link-contact", 0, "contact to link the note to")
	f.StringVar(&visibleTo, "visible-to", "", "visibility (Everyone, ...)")
	f.StringArrayVar(&tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("link-contact")
	return cmd
}

func (a *App) newNotesUpdateCmd(r resourceCmds) *cobra.Command {
	var (
		content string
		sets    []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a note",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			body := map[string]any{}
			if cmd.Flags().Changed("content") {
				text, err := a.readContent(content)
				if err != nil {
					return err
				}
				body["content"] = text
			}
			if err := applySets(body, sets); err != nil {
				return err
			}
			return r.update(cmd, id, body)
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "note content, or - for stdin")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field, key=value (repeatable)")
	return cmd
}

// readContent returns s, or trimmed stdin when s is "-".
func (a *App) readContent(s string) (string, error) {
	if s != "-" {
		return s, nil
	}
	data, err := io.ReadAll(a.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
