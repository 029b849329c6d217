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

// Package wealthbox implements a client for the WealthBox CRM REST API.
//
// List endpoints are paged: each page carries the items under a resource key
// (usually the last path segment) and a meta.total_pages count. Fetch walks
// every page and concatenates the items.
//
// API docs: https://dev.wealthbox.com/
package wealthbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the root of the WealthBox v1 API.
	DefaultBaseURL = "https://api.crmworkspace.com/v1/"
	// TokenHeader carries a personal API access token.
	TokenHeader = "ACCESS_TOKEN"

	defaultTimeout = 60 * time.Second
)

// Config holds client settings.
type Config struct {
	BaseURL string
	// Token is sent in the ACCESS_TOKEN header. Leave empty when HTTPClient
	// already authenticates (OAuth).
	Token    string
	Timeout  time.Duration
	RetryMax int
	// HTTPClient is the underlying transport, e.g. an oauth2 client. A pooled
	// default is used when nil.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the WealthBox API. Requests are retried with backoff on
// 429 and 5xx responses, honouring Retry-After.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// NewClient creates a WealthBox client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 30 * time.Second
	rc.Logger = logger
	// Hand the final response back instead of a generic "giving up" error so
	// the status and Retry-After can be inspected.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.HTTPClient != nil {
		// Copy so the caller's client keeps its own timeout.
		hc := *cfg.HTTPClient
		rc.HTTPClient = &hc
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc.HTTPClient.Timeout = timeout

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return &Client{
		httpClient: rc.StandardClient(),
		baseURL:    base,
		token:      cfg.Token,
		logger:     logger,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Path: path, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	c.logger.Debug("wealthbox request", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(data))
	return data, nil
}

// doJSON performs a request whose response must be a JSON document.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	data, err := c.do(ctx, method, path, params, body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &ResponseError{Method: method, Path: path, Body: string(data)}
	}
	return json.RawMessage(data), nil
}

// Get fetches a single document, e.g. "contacts/123" or "me".
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, path, params, nil)
}

// Post creates a record and returns the API's representation of it.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, path, nil, body)
}

// Put updates a record and returns the API's representation of it.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPut, path, nil, body)
}

// Delete removes a record. Both 200 and 204 count as success.
func (c *Client) Delete(ctx context.Context, path string) error {
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// Fetch returns all items of a paged list endpoint as one JSON array. The
// item key defaults to the last path segment. A response without a meta
// section is not paged and is returned whole.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values, key string) (json.RawMessage, error) {
	return c.fetch(ctx, path, params, key, 0)
}

// FetchLimit is Fetch capped at limit items. The limit doubles as the page
// size, so small limits cost a single request.
func (c *Client) FetchLimit(ctx context.Context, path string, params url.Values, key string, limit int) (json.RawMessage, error) {
	if limit > 0 {
		params = cloneValues(params)
		params.Set("per_page", strconv.Itoa(limit))
	}
	return c.fetch(ctx, path, params, key, limit)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values, key string, limit int) (json.RawMessage, error) {
	if key == "" {
		key = path[strings.LastIndex(path, "/")+1:]
	}
	q := cloneValues(params)

	var items []string
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))
		raw, err := c.doJSON(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, err
		}

		res := gjson.ParseBytes(raw)
		meta := res.Get("meta")
		if !meta.Exists() && page == 1 {
			return raw, nil
		}

		list := res.Get(gjson.Escape(key))
		if !list.Exists() {
			return nil, &MissingKeyError{Path: path, Key: key}
		}
		if list.IsArray() {
			list.ForEach(func(_, item gjson.Result) bool {
				items = append(items, item.Raw)
				return limit <= 0 || len(items) < limit
			})
		} else {
			items = append(items, list.Raw)
		}

		total := int(meta.Get("total_pages").Int())
		c.logger.Debug("fetched page", "path", path, "page", page, "total_pages", total, "items", len(items))
		if page >= total || (limit > 0 && len(items) >= limit) {
			break
		}
	}

	return json.RawMessage("[" + strings.Join(items, ",") + "]"), nil
}

// fetchList fetches a paged endpoint and decodes its items.
func fetchList[T any](ctx context.Context, c *Client, path string, params url.Values, key string) ([]T, error) {
	raw, err := c.Fetch(ctx, path, params, key)
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(raw)
	if res.IsObject() {
		if key == "" {
			key = path[strings.LastIndex(path, "/")+1:]
		}
		res = res.Get(gjson.Escape(key))
	}
	if !res.IsArray() {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
