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

package wealthbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bcem/wealthbox/internal/models"
)

// User map display methods.
const (
	UserMapName      = "name"
	UserMapFirstName = "first_name"
	UserMapFull      = "full"
)

// Users lists the users of the account.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	return fetchList[models.User](ctx, c, "users", nil, "users")
}

// Me returns the raw /me document.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "me", nil)
}

// CurrentUser returns the user the credentials belong to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	cu := gjson.GetBytes(raw, "current_user")
	if !cu.IsObject() {
		return nil, &MissingKeyError{Path: "me", Key: "current_user"}
	}
	var u models.User
	if err := json.Unmarshal([]byte(cu.Raw), &u); err != nil {
		return nil, fmt.Errorf("decode current user: %w", err)
	}
	return &u, nil
}

// UserMap maps user ids to display strings. method is one of "name",
// "first_name" (first word of the name) or "full" ("id; name; email").
func (c *Client) UserMap(ctx context.Context, method string) (models.UserMap, error) {
	switch method {
	case UserMapName, UserMapFirstName, UserMapFull:
	default:
		return nil, fmt.Errorf("user map method %q: must be one of %s, %s, %s",
			method, UserMapName, UserMapFirstName, UserMapFull)
	}

	users, err := c.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	m := make(models.UserMap, len(users))
	for _, u := range users {
		if u.ID == 0 {
			continue
		}
		switch method {
		case UserMapName:
			m[u.ID] = u.Name
		case UserMapFirstName:
			first, _, _ := strings.Cut(strings.TrimSpace(u.Name), " ")
			m[u.ID] = first
		case UserMapFull:
			m[u.ID] = fmt.Sprintf("%d; %s; %s", u.ID, u.Name, u.Email)
		}
	}

	c.logger.Debug("user map loaded", "users", len(m), "method", method)
	return m, nil
}
