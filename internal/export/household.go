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

	"github.com/bcem/wealthbox/internal/models"
)

// HouseholdInfo identifies the household an export is grouped under.
type HouseholdInfo struct {
	ID   int64
	Name string
}

// ResolveHousehold returns the contacts whose activity belongs in the export
// of contact, and the household they share if any.
//
// A Household exports its members; a member of a household exports the whole
// household. Either way an empty member list falls back to the contact
// itself. Only fetch errors are returned.
func ResolveHousehold(ctx context.Context, src Source, contact *models.Contact) ([]models.Contact, *HouseholdInfo, error) {
	if contact.IsHousehold() {
		members, err := fetchMembers(ctx, src, contact)
		if err != nil {
			return nil, nil, err
		}
		if len(members) == 0 {
			members = []models.Contact{*contact}
		}
		return members, &HouseholdInfo{ID: contact.ID, Name: contact.Name}, nil
	}

	if contact.HasHousehold() {
		ref := contact.Household
		household, err := src.GetContact(ctx, ref.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch household %d: %w", ref.ID, err)
		}
		name := household.Name
		if name == "" {
			name = ref.Name
		}
		members, err := fetchMembers(ctx, src, household)
		if err != nil {
			return nil, nil, err
		}
		if len(members) == 0 {
			members = []models.Contact{*contact}
		}
		return members, &HouseholdInfo{ID: ref.ID, Name: name}, nil
	}

	return []models.Contact{*contact}, nil, nil
}

func fetchMembers(ctx context.Context, src Source, household *models.Contact) ([]models.Contact, error) {
	members := make([]models.Contact, 0, len(household.MemberIDs))
	for _, id := range household.MemberIDs {
		m, err := src.GetContact(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch household member %d: %w", id, err)
		}
		members = append(members, *m)
	}
	return members, nil
}
