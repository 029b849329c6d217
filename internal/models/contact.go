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

// Package models defines the WealthBox records used by the export engine.
//
// Records are decoded leniently: shape variations the API is known to
// produce are normalised once here, so rendering code sees one form.
package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Contact categories.
const (
	TypePerson       = "Person"
	TypeHousehold    = "Household"
	TypeOrganization = "Organization"
	TypeTrust        = "Trust"
)

// Contact is a CRM party: a Person, Household, Organization or Trust.
type Contact struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Type        string `json:"type"`
	ContactType string `json:"contact_type,omitempty"`
	Status      string `json:"status,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Company     Named  `json:"company"`
	UpdatedAt   string `json:"updated_at,omitempty"`

	Household      HouseholdRef    `json:"household"`
	EmailAddresses []ContactMethod `json:"email_addresses,omitempty"`
	PhoneNumbers   []ContactMethod `json:"phone_numbers,omitempty"`
	Tags           []Tag           `json:"tags,omitempty"`
	CustomFields   []CustomField   `json:"custom_fields,omitempty"`

	// MemberIDs lists household members, normalised from both the legacy
	// {"contact": {"id": N}} and the current {"id": N, ...} entry shapes.
	MemberIDs []int64 `json:"-"`
}

// HouseholdRef is a person's back-reference to their household.
type HouseholdRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler. Non-object values decode to the
// zero reference.
func (h *HouseholdRef) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	*h = HouseholdRef{}
	if res.IsObject() {
		h.ID = res.Get("id").Int()
		h.Name = res.Get("name").String()
	}
	return nil
}

// ContactMethod is an email address or phone number entry.
type ContactMethod struct {
	Address string `json:"address"`
	Kind    string `json:"kind,omitempty"`
}

// CustomField is a firm-defined contact attribute.
type CustomField struct {
	Name  string `json:"name"`
	Value Text   `json:"value"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Contact) UnmarshalJSON(data []byte) error {
	type plain Contact
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Contact(p)
	c.MemberIDs = memberIDs(gjson.GetBytes(data, "members"))
	return nil
}

// IsHousehold reports whether the contact is a Household.
func (c *Contact) IsHousehold() bool { return c.Type == TypeHousehold }

// HasHousehold reports whether the contact references a household.
func (c *Contact) HasHousehold() bool { return c.Household.ID != 0 }

// CompanyDisplay returns the employer name from either company field.
func (c *Contact) CompanyDisplay() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.Company.Name
}

// memberIDs extracts member contact ids. Entries that are not objects or
// carry no id are skipped.
func memberIDs(members gjson.Result) []int64 {
	if !members.IsArray() {
		return nil
	}
	var ids []int64
	members.ForEach(func(_, m gjson.Result) bool {
		if !m.IsObject() {
			return true
		}
		inner := m
		if c := m.Get("contact"); c.Exists() {
			if !c.IsObject() {
				return true
			}
			inner = c
		}
		if id := inner.Get("id").Int(); id != 0 {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
