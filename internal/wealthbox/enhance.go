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
	"encoding/json"
	"math"

	"github.com/bcem/wealthbox/internal/models"
)

// userKeys are the fields that hold a user id.
var userKeys = map[string]bool{"creator": true, "assigned_to": true}

// EnhanceUserInfo returns a copy of decoded JSON in which numeric creator and
// assigned_to values found in users are replaced by the display name, at any
// depth. Unknown ids and all other values are left as they are.
func EnhanceUserInfo(v any, users models.UserMap) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if userKeys[k] {
				if id, ok := userID(val); ok {
					if name, found := users[id]; found {
						out[k] = name
						continue
					}
				}
			}
			out[k] = EnhanceUserInfo(val, users)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = EnhanceUserInfo(val, users)
		}
		return out
	default:
		return v
	}
}

func userID(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
