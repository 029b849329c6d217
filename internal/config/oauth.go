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
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is the WealthBox OAuth token endpoint.
	DefaultTokenURL = "https://app.crmworkspace.com/oauth/token"
	// DefaultAuthURL is the WealthBox OAuth authorization endpoint.
	DefaultAuthURL = "https://app.crmworkspace.com/oauth/authorize"
)

// OAuthConfig holds the credentials for the OAuth refresh-token flow.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
}

// Enabled reports whether enough is configured to mint access tokens.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.RefreshToken != ""
}

// HTTPClient returns a client that adds a bearer token to every request,
// refreshing it as needed. The token request uses base as transport when
// non-nil.
func (o OAuthConfig) HTTPClient(ctx context.Context, base *http.Client) (*http.Client, error) {
	if !o.Enabled() {
		return nil, errors.New("oauth requires client_id, client_secret and refresh_token")
	}
	conf := &oauth2.Config{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  DefaultAuthURL,
			TokenURL: firstNonEmpty(o.TokenURL, DefaultTokenURL),
		},
	}
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: o.RefreshToken})
	return oauth2.NewClient(ctx, src), nil
}
