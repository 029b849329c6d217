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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// TokenEnv names the access token environment variable.
const TokenEnv = "WEALTHBOX_ACCESS_TOKEN"

// Token sources, as reported by ResolveToken.
const (
	SourceEnv         = "environment"
	SourceDotEnv      = ".env"
	SourceCredentials = "credentials file"
	SourceConfig      = "config file"
)

// ErrNoToken is returned when no access token is configured anywhere.
var ErrNoToken = errors.New("no access token found: set " + TokenEnv + " or run 'wb auth set-token'")

type credentials struct {
	AccessToken string `json:"access_token"`
}

// CredentialsPath is $XDG_CONFIG_HOME/wealthbox/credentials.json.
func CredentialsPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "credentials.json")
}

// ResolveToken finds the access token. The first non-empty value wins:
// the environment, .env in the working directory, the credentials file,
// then auth.access_token from the config file. Unreadable sources are
// skipped. It also reports which source was used.
func (c *Config) ResolveToken() (token, source string, err error) {
	if v := os.Getenv(TokenEnv); v != "" {
		return v, SourceEnv, nil
	}

	if values, err := godotenv.Read(".env"); err == nil {
		if v := values[TokenEnv]; v != "" {
			return v, SourceDotEnv, nil
		}
	}

	if data, err := os.ReadFile(CredentialsPath()); err == nil {
		var creds credentials
		if json.Unmarshal(data, &creds) == nil && creds.AccessToken != "" {
			return creds.AccessToken, SourceCredentials, nil
		}
	}

	if c != nil && c.Auth.AccessToken != "" {
		return c.Auth.AccessToken, SourceConfig, nil
	}
	return "", "", ErrNoToken
}

// SaveToken writes token to the credentials file, readable only by the
// owner, and returns its path.
func SaveToken(token string) (string, error) {
	path := CredentialsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.Marshal(credentials{AccessToken: token})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return path, nil
}
