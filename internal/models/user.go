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
	"strconv"

	"github.com/tidwall/gjson"
)

// User is a WealthBox user account (an advisor or staff member, not a contact).
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AccountID int64  `json:"account,omitempty"`
}

// UserMap maps user ids to display strings.
type UserMap map[int64]string

// UserRef is a creator or assignee reference. The API sends a numeric user
// id; after resolution the display name is filled in. Ids that cannot be
// resolved keep their numeric form.
type UserRef struct {
	ID   int64
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	*u = UserRef{}
	switch {
	case res.Type == gjson.Number:
		u.ID = res.Int()
	case res.Type == gjson.String:
		u.Name = res.String()
	case res.IsObject():
		u.ID = res.Get("id").Int()
		u.Name = res.Get("name").String()
	}
	return nil
}

// MarshalJSON emits the display name when known, else the numeric id.
func (u UserRef) MarshalJSON() ([]byte, error) {
	switch {
	case u.Name != "":
		return json.Marshal(u.Name)
	case u.ID != 0:
		return []byte(strconv.FormatInt(u.ID, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// IsZero reports whether the reference is absent.
func (u UserRef) IsZero() bool { return u.ID == 0 && u.Name == "" }

// String returns the display name, or the numeric id when unresolved.
func (u UserRef) String() string {
	if u.Name != "" {
		return u.Name
	}
	if u.ID != 0 {
		return strconv.FormatInt(u.ID, 10)
	}
	return ""
}

// Resolve fills in the display name from users when the id is known.
func (u *UserRef) Resolve(users UserMap) {
	if u.Name != "" || u.ID == 0 {
		return
	}
	if name, ok := users[u.ID]; ok {
		u.Name = name
	}
}
