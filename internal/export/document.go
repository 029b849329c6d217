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
	"strings"
	"time"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/wbtime"
)

// now is replaced in tests.
var now = time.Now

// Document is a rendered contact export.
type Document struct {
	ContactID int64
	// Title is the frontmatter title: the household name for households,
	// else the contact name.
	Title     string
	Household *HouseholdInfo
	Entries   int
	Markdown  string
}

// ExportContact renders contactID, its household and its activity. Pass the
// same cache across calls to share firm-wide lists; nil uses a fresh one.
// Links into the web app are added when workspaceID is non-zero.
func ExportContact(ctx context.Context, src Source, contactID int64, cache *Cache, workspaceID int64) (*Document, error) {
	if cache == nil {
		cache = NewCache()
	}

	contact, err := src.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	members, hh, err := ResolveHousehold(ctx, src, contact)
	if err != nil {
		return nil, err
	}

	var hhID int64
	if hh != nil {
		hhID = hh.ID
	}
	act, err := GatherActivity(ctx, src, members, hhID, cache)
	if err != nil {
		return nil, fmt.Errorf("gather activity for contact %d: %w", contactID, err)
	}
	entries := MergeTimeline(act)

	title := documentTitle(contact, hh)
	parts := []string{
		renderFrontmatter(contact, hh, title, now().Format(wbtime.DateLayout)),
		"",
		renderContactInfo(members),
	}
	if tl := RenderTimeline(entries, RenderOptions{WorkspaceID: workspaceID, ContactID: contactID}); tl != "" {
		parts = append(parts, tl)
	}

	return &Document{
		ContactID: contactID,
		Title:     title,
		Household: hh,
		Entries:   len(entries),
		Markdown:  strings.Join(parts, "\n") + "\n",
	}, nil
}

// ExportContactToMarkdown is ExportContact returning only the markdown.
func ExportContactToMarkdown(ctx context.Context, src Source, contactID int64, cache *Cache, workspaceID int64) (string, error) {
	doc, err := ExportContact(ctx, src, contactID, cache, workspaceID)
	if err != nil {
		return "", err
	}
	return doc.Markdown, nil
}

func documentTitle(contact *models.Contact, hh *HouseholdInfo) string {
	if contact.IsHousehold() && hh != nil && hh.Name != "" {
		return hh.Name
	}
	return orDefault(contact.Name, "Unknown")
}

func renderFrontmatter(contact *models.Contact, hh *HouseholdInfo, title, date string) string {
	lines := []string{
		"---",
		`title: "` + escapeYAML(title) + `"`,
		`description: "Contact export from WealthBox CRM"`,
		`date: "` + date + `"`,
	}

	var categories []string
	if contact.ContactType != "" {
		categories = append(categories, contact.ContactType)
	}
	if contact.Type != "" {
		categories = append(categories, contact.Type)
	}
	if len(categories) > 0 {
		lines = append(lines, "categories:")
		for _, c := range categories {
			lines = append(lines, "  - "+c)
		}
	}

	if len(contact.Tags) > 0 {
		lines = append(lines, "tags:")
		for _, t := range contact.Tags {
			lines = append(lines, `  - "`+escapeYAML(t.Name)+`"`)
		}
	}

	lines = append(lines, fmt.Sprintf("contact_id: %d", contact.ID))
	if contact.ContactType != "" {
		lines = append(lines, `contact_type: "`+escapeYAML(contact.ContactType)+`"`)
	}
	if contact.Type != "" {
		lines = append(lines, `type: "`+escapeYAML(contact.Type)+`"`)
	}
	if hh != nil {
		lines = append(lines,
			fmt.Sprintf("household_id: %d", hh.ID),
			`household_name: "`+escapeYAML(hh.Name)+`"`,
		)
	}

	lines = append(lines, "---")
	return strings.Join(lines, "\n")
}

func renderContactInfo(members []models.Contact) string {
	multi := len(members) > 1
	var parts []string
	if multi {
		parts = append(parts, "## Household Members\n")
	}

	for i := range members {
		m := &members[i]
		name := orDefault(m.Name, "Unknown")
		if multi {
			parts = append(parts, "### "+name+"\n")
		} else {
			parts = append(parts, "# "+name+"\n")
		}

		var info []string
		if m.Type != "" {
			info = append(info, "**Type:** "+m.Type)
		}
		if m.ContactType != "" {
			info = append(info, "**Contact Type:** "+m.ContactType)
		}
		if m.Status != "" {
			info = append(info, "**Status:** "+m.Status)
		}
		if len(info) > 0 {
			parts = append(parts, strings.Join(info, " | "))
		}

		if m.Nickname != "" {
			parts = append(parts, "**Nickname:** "+m.Nickname)
		}
		for _, e := range m.EmailAddresses {
			if e.Address != "" {
				parts = append(parts, "**Email:** "+e.Address+kindSuffix(e.Kind))
			}
		}
		for _, p := range m.PhoneNumbers {
			if p.Address != "" {
				parts = append(parts, "**Phone:** "+p.Address+kindSuffix(p.Kind))
			}
		}
		if m.BirthDate != "" {
			parts = append(parts, "**Birth Date:** "+m.BirthDate)
		}

		var job []string
		if m.JobTitle != "" {
			job = append(job, m.JobTitle)
		}
		if company := m.CompanyDisplay(); company != "" {
			job = append(job, "at "+company)
		}
		if len(job) > 0 {
			parts = append(parts, "**Job Title:** "+strings.Join(job, " "))
		}

		sub := "### "
		if multi {
			sub = "#### "
		}
		if len(m.CustomFields) > 0 {
			parts = append(parts, "", sub+"Custom Fields")
			for _, cf := range m.CustomFields {
				if cf.Name != "" && cf.Value != "" {
					parts = append(parts, fmt.Sprintf("- %s: %s", cf.Name, cf.Value))
				}
			}
		}
		if len(m.Tags) > 0 {
			names := make([]string, len(m.Tags))
			for j, t := range m.Tags {
				names[j] = t.Name
			}
			parts = append(parts, "", sub+"Tags", strings.Join(names, ", "))
		}

		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

func kindSuffix(kind string) string {
	if kind == "" {
		return ""
	}
	return " (" + kind + ")"
}
