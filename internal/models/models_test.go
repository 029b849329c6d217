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

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContact_MemberShapes verifies both household member shapes decode to the
// same id list and that malformed entries are skipped.
func TestContact_MemberShapes(t *testing.T) {
	raw := `{
		"id": 200, "name": "Smith Household", "type": "Household",
		"members": [
			{"contact": {"id": 1}},
			{"id": 2, "type": "Person"},
			{"contact": "junk"},
			{"name": "no id"},
			42,
			"text"
		]
	}`
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	if diff := cmp.Diff([]int64{1, 2}, c.MemberIDs); diff != "" {
		t.Errorf("member ids mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, c.IsHousehold())
}

// TestContact_LegacyMemberKey verifies only "members" is consulted.
func TestContact_LegacyMemberKey(t *testing.T) {
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "household_members": [{"id": 5}]}`), &c))
	assert.Empty(t, c.MemberIDs)
}

func TestContact_HouseholdAndCompany(t *testing.T) {
	var c Contact
	raw := `{"id": 1, "household": {"id": 200, "name": "Smiths"}, "company": {"name": "Acme"},
		"tags": ["VIP", {"name": "HNW"}], "custom_fields": [{"name": "Tier", "value": 3}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.True(t, c.HasHousehold())
	assert.Equal(t, "Smiths", c.Household.Name)
	assert.Equal(t, "Acme", c.CompanyDisplay())
	assert.Equal(t, []Tag{{Name: "VIP"}, {Name: "HNW"}}, c.Tags)
	assert.Equal(t, Text("3"), c.CustomFields[0].Value)

	var bad Contact
	require.NoError(t, json.Unmarshal([]byte(`{"id": 2, "household": "none", "company": "Initech"}`), &bad))
	assert.False(t, bad.HasHousehold())
	assert.Equal(t, "Initech", bad.CompanyDisplay())
}

// TestLinks_SkipsMalformed verifies non-object and id-less link entries are
// dropped.
func TestLinks_SkipsMalformed(t *testing.T) {
	var task Task
	raw := `{"id": 9, "linked_to": [{"id": 100, "type": "Contact"}, "x", {"type": "Contact"}, null, {"id": 101}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, []int64{100, 101}, task.LinkedTo.IDs())
	assert.True(t, task.LinkedTo.Intersects(map[int64]bool{101: true}))
	assert.False(t, task.LinkedTo.Intersects(map[int64]bool{999: true}))

	var none Task
	require.NoError(t, json.Unmarshal([]byte(`{"id": 10, "linked_to": "oops"}`), &none))
	assert.Empty(t, none.LinkedTo)
}

func TestTask_CompletionSpellings(t *testing.T) {
	cases := map[string]bool{
		`{"id": 1, "completed": true}`:   true,
		`{"id": 1, "complete": true}`:    true,
		`{"id": 1, "completed": "true"}`: true,
		`{"id": 1, "completed": false}`:  false,
		`{"id": 1}`:                      false,
	}
	for raw, want := range cases {
		var task Task
		require.NoError(t, json.Unmarshal([]byte(raw), &task), raw)
		assert.Equal(t, want, task.Completed, raw)
	}
}

func TestBody_Shapes(t *testing.T) {
	var c Comment
	require.NoError(t, json.Unmarshal([]byte(`{"body": {"html": "<b>hi</b>", "text": "hi"}}`), &c))
	assert.Equal(t, "<b>hi</b>", c.Body.Text())

	require.NoError(t, json.Unmarshal([]byte(`{"body": {"text": "plain"}}`), &c))
	assert.Equal(t, "plain", c.Body.Text())

	require.NoError(t, json.Unmarshal([]byte(`{"body": "str"}`), &c))
	assert.Equal(t, "str", c.Body.Text())

	require.NoError(t, json.Unmarshal([]byte(`{"body": null}`), &c))
	assert.True(t, c.Body.IsZero())
}

func TestNote_LegacyBodyKey(t *testing.T) {
	var n Note
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "body": "old style"}`), &n))
	assert.Equal(t, "old style", n.Content.Text())
}

func TestOpportunity_Stage(t *testing.T) {
	cases := []struct {
		raw      string
		wantName string
		wantID   int64
	}{
		{`{"stage": "Proposal"}`, "Proposal", 0},
		{`{"stage": {"id": 7, "name": "Proposal"}}`, "Proposal", 7},
		{`{"stage": 144686}`, "", 144686},
		{`{"stage": 144686, "stage_name": "Closed Won"}`, "Closed Won", 0},
		{`{}`, "", 0},
	}
	for _, tc := range cases {
		var o Opportunity
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &o), tc.raw)
		assert.Equal(t, tc.wantName, o.Stage.Name, tc.raw)
		assert.Equal(t, tc.wantID, o.Stage.ID, tc.raw)
	}
}

func TestOpportunity_DisplayAmount(t *testing.T) {
	cases := [][2]string{
		{`{"amount": 500000}`, "$500,000"},
		{`{"amounts": [{"amount": "$500", "kind": "Fee"}]}`, "$500"},
		{`{"amounts": [{"amount": "$1,000"}, {"amount": "$200"}]}`, "$1,000"},
		{`{"amounts": [], "amount": 250000}`, "$250,000"},
		{`{"amounts": [{"amount": 1234.5}]}`, "$1,234"},
		{`{"value": "250000"}`, "$250,000"},
		{`{"amount": "TBD"}`, "TBD"},
		{`{"amount": 0}`, ""},
		{`{}`, ""},
	}
	for _, tc := range cases {
		var o Opportunity
		require.NoError(t, json.Unmarshal([]byte(tc[0]), &o), tc[0])
		assert.Equal(t, tc[1], o.DisplayAmount(), tc[0])
	}
}

// TestResolveUsers_Nested verifies names are filled in through workflow steps
// and their comments, and unknown ids stay numeric.
func TestResolveUsers_Nested(t *testing.T) {
	users := UserMap{1: "John Doe", 2: "Jane Smith"}
	var wf Workflow
	raw := `{"id": 5, "creator": 1, "workflow_steps": [
		{"id": 1, "assigned_to": 2, "comments": [{"creator": 1}, {"creator": 999}]}
	]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &wf))

	wf.ResolveUsers(users)

	assert.Equal(t, "John Doe", wf.Creator.String())
	assert.Equal(t, "Jane Smith", wf.Steps[0].AssignedTo.String())
	assert.Equal(t, "John Doe", wf.Steps[0].Comments[0].Creator.String())
	assert.Equal(t, "999", wf.Steps[0].Comments[1].Creator.String())

	out, err := json.Marshal(wf.Steps[0].Comments[1].Creator)
	require.NoError(t, err)
	assert.Equal(t, "999", string(out))
}
