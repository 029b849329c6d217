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

// Package config loads wb settings from a YAML file and environment
// variables, and resolves the API access token.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Auth methods.
const (
	AuthToken = "token"
	AuthOAuth = "oauth"
)

const (
	appDir = "wealthbox"

	defaultBaseURL      = "https://api.crmworkspace.com/v1/"
	defaultTimeout      = 60 * time.Second
	defaultRetries      = 3
	defaultLookbackDays = 30
)

// Config holds all settings for the wb CLI.
type Config struct {
	// Path is the file the settings were read from, empty when none existed.
	Path string

	BaseURL     string
	Timeout     time.Duration
	Retries     int
	WorkspaceID int64

	Auth   AuthConfig
	Export ExportConfig

	// RedisURL enables the distributed export lock.
	RedisURL string
	// DatabaseURL enables the Postgres export run ledger.
	DatabaseURL string
}

// AuthConfig selects how requests are authenticated.
type AuthConfig struct {
	Method      string
	AccessToken string
	OAuth       OAuthConfig
}

// ExportConfig holds batch export defaults.
type ExportConfig struct {
	Dir          string
	LookbackDays int
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
		Retries *int   `yaml:"retries"`
	} `yaml:"api"`
	WorkspaceID int64 `yaml:"workspace_id"`
	Auth        struct {
		Method      string `yaml:"method"`
		AccessToken string `yaml:"access_token"`
		OAuth       struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
			RefreshToken string `yaml:"refresh_token"`
			TokenURL     string `yaml:"token_url"`
		} `yaml:"oauth"`
	} `yaml:"auth"`
	Export struct {
		Dir          string `yaml:"dir"`
		LookbackDays *int   `yaml:"lookback_days"`
	} `yaml:"export"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Ledger struct {
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"ledger"`
}

// DefaultPath is $WEALTHBOX_CONFIG, else $XDG_CONFIG_HOME/wealthbox/config.yaml.
func DefaultPath() string {
	return envOrDefault("WEALTHBOX_CONFIG", filepath.Join(xdg.ConfigHome, appDir, "config.yaml"))
}

// Load reads configuration from path (DefaultPath when empty), expanding
// ${VAR} references, then applies environment overrides. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	var raw rawConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		path = ""
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML %s: %w", path, err)
		}
	}

	timeout := defaultTimeout
	if raw.API.Timeout != "" {
		d, err := parseSeconds(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("api.timeout: %w", err)
		}
		timeout = d
	}
	retries := defaultRetries
	if raw.API.Retries != nil {
		retries = *raw.API.Retries
	}
	lookback := defaultLookbackDays
	if raw.Export.LookbackDays != nil {
		lookback = *raw.Export.LookbackDays
	}

	cfg := &Config{
		Path:        path,
		BaseURL:     firstNonEmpty(os.Getenv("WEALTHBOX_BASE_URL"), raw.API.BaseURL, defaultBaseURL),
		Timeout:     envOrDefaultDuration("WEALTHBOX_TIMEOUT", timeout),
		Retries:     envOrDefaultInt("WEALTHBOX_RETRIES", retries),
		WorkspaceID: envOrDefaultInt64("WEALTHBOX_WORKSPACE_ID", raw.WorkspaceID),
		Auth: AuthConfig{
			Method:      strings.ToLower(firstNonEmpty(os.Getenv("WEALTHBOX_AUTH_METHOD"), raw.Auth.Method, AuthToken)),
			AccessToken: raw.Auth.AccessToken,
			OAuth: OAuthConfig{
				ClientID:     firstNonEmpty(os.Getenv("WEALTHBOX_CLIENT_ID"), raw.Auth.OAuth.ClientID),
				ClientSecret: firstNonEmpty(os.Getenv("WEALTHBOX_CLIENT_SECRET"), raw.Auth.OAuth.ClientSecret),
				RefreshToken: firstNonEmpty(os.Getenv("WEALTHBOX_REFRESH_TOKEN"), raw.Auth.OAuth.RefreshToken),
				TokenURL:     firstNonEmpty(raw.Auth.OAuth.TokenURL, DefaultTokenURL),
			},
		},
		Export: ExportConfig{
			Dir:          raw.Export.Dir,
			LookbackDays: envOrDefaultInt("WEALTHBOX_LOOKBACK_DAYS", lookback),
		},
		RedisURL:    firstNonEmpty(os.Getenv("REDIS_URL"), raw.Redis.URL),
		DatabaseURL: firstNonEmpty(os.Getenv("WEALTHBOX_DATABASE_URL"), raw.Ledger.DatabaseURL),
	}

	if cfg.Export.LookbackDays < 0 {
		return nil, fmt.Errorf("export.lookback_days %d: must not be negative", cfg.Export.LookbackDays)
	}
	if cfg.Auth.Method != AuthToken && cfg.Auth.Method != AuthOAuth {
		return nil, fmt.Errorf("auth.method %q: must be %q or %q", cfg.Auth.Method, AuthToken, AuthOAuth)
	}
	return cfg, nil
}

// parseSeconds accepts a Go duration ("90s") or a bare number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := parseSeconds(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
