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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberIDsOf(t *testing.T, src *fakeSource, raw string) []int64 {
	t.Helper()
	c := src.addContact(t, raw)
	members, _, err := ResolveHousehold(context.Background(), src, &c)
	require.NoError(t, err)
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func newHouseholdSource(t *testing.T) *fakeSource {
	src := newFakeSource()
	src.addContact(t, `{"id": 100, "name": "Doe Family", "type": "Household",
		"members": [{"contact": {"id": 1}}, {"id": 2, "type": "Person"}]}`)
	src.addContact(t, `{"id": 1, "name": "Jane Doe", "type": "Person", "household": {"id": 100, "name": "Doe Household"}}`)
	src.addContact(t, `{"id": 2, "name": "John Doe", "type": "Person", "household": {"id": 100}}`)
	return src
}

func TestResolveHousehold_Household(t *testing.T) {
	src := newHouseholdSource(t)
	hh := src.contacts[100]

	members, info, err := ResolveHousehold(context.Background(), src, &hh)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Jane Doe", members[0].Name)
	assert.Equal(t, "John Doe", members[1].Name)
	assert.Equal(t, &HouseholdInfo{ID: 100, Name: "Doe Family"}, info)
}

func TestResolveHousehold_Member(t *testing.T) {
	src := newHouseholdSource(t)
	jane := src.contacts[1]

	members, info, err := ResolveHousehold(context.Background(), src, &jane)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	// The household record's own name wins over the back-reference.
	assert.Equal(t, &HouseholdInfo{ID: 100, Name: "Doe Family"}, info)
}

func TestResolveHousehold_EmptyHouseholdFallsBack(t *testing.T) {
	src := newFakeSource()
	ids := memberIDsOf(t, src, `{"id": 7, "name": "Empty", "type": "Household", "members": []}`)
	assert.Equal(t, []int64{7}, ids)
}

func TestResolveHousehold_MalformedMembersSkipped(t *testing.T) {
	src := newFakeSource()
	src.addContact(t, `{"id": 3, "name": "Solo", "type": "Person"}`)
	ids := memberIDsOf(t, src, `{"id": 8, "name": "Odd", "type": "Household",
		"members": ["junk", {"contact": "x"}, {"name": "no id"}, {"id": 3}]}`)
	assert.Equal(t, []int64{3}, ids)
}

func TestResolveHousehold_Standalone(t *testing.T) {
	src := newFakeSource()
	c := src.addContact(t, `{"id": 5, "name": "Alone", "type": "Person", "household": null}`)

	members, info, err := ResolveHousehold(context.Background(), src, &c)
	require.NoError(t, err)
	assert.Nil(t, info)
	require.Len(t, members, 1)
	assert.Equal(t, int64(5), members[0].ID)
	assert.Zero(t, src.callCount("GetContact"))
}

func TestResolveHousehold_FetchErrorPropagates(t *testing.T) {
	src := newHouseholdSource(t)
	src.getErr[2] = assert.AnError
	hh := src.contacts[100]

	_, _, err := ResolveHousehold(context.Background(), src, &hh)
	assert.ErrorIs(t, err, assert.AnError)
}
