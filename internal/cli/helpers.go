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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/output"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

// outputOptions builds output options from the global flags.
func (a *App) outputOptions() output.Options {
	format := output.Auto
	switch {
	case a.opts.json:
		format = output.JSON
	case a.opts.table:
		format = output.Table
	case a.opts.csv:
		format = output.CSV
	}
	return output.Options{
		Format:    format,
		Fields:    output.ParseFields(a.opts.fields),
		Head:      a.opts.head,
		Count:     a.opts.count,
		Oneline:   a.opts.oneline,
		NoHeaders: a.opts.noHeaders,
		File:      a.opts.output,
		Terminal:  a.Terminal != nil && a.Terminal(),
	}
}

// emit formats an API response on stdout or the --output file.
func (a *App) emit(ctx context.Context, data json.RawMessage) error {
	if a.opts.resolveUsers {
		resolved, err := a.resolveUsers(ctx, data)
		if err != nil {
			return err
		}
		data = resolved
	}
	return output.Write(a.Stdout, data, a.outputOptions())
}

func (a *App) resolveUsers(ctx context.Context, data json.RawMessage) (json.RawMessage, error) {
	if a.users == nil {
		client, err := a.api(ctx)
		if err != nil {
			return nil, err
		}
		users, err := client.UserMap(ctx, wealthbox.UserMapName)
		if err != nil {
			return nil, fmt.Errorf("resolve users: %w", err)
		}
		a.users = users
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out, err := json.Marshal(wealthbox.EnhanceUserInfo(v, a.users))
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

// guardWrite reports whether a write may proceed. --readonly fails the
// command; --dry-run prints a notice and skips it.
func (a *App) guardWrite(cmd *cobra.Command) (bool, error) {
	if a.opts.readonly {
		return false, &ExitError{
			Code:     CodeReadonly,
			Message:  "Write operations are blocked in --readonly mode",
			ExitCode: ExitReadonly,
		}
	}
	if a.opts.dryRun {
		slog.Debug("dry run, write skipped", "command", cmd.CommandPath())
		a.println("Dry run: would execute write operation (skipped)")
		return false, nil
	}
	return true, nil
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid %s %q: must be a positive integer", name, s)
	}
	return id, nil
}

// idArgs validates that a command receives exactly the named id arguments.
func idArgs(names ...string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return usageErrorf("expected arguments: <%s>", strings.Join(names, "> <"))
		}
		for i, name := range names {
			if _, err := parseID(name, args[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// loadBody decodes a --from-json value: inline JSON or @path.
func loadBody(spec string) (map[string]any, error) {
	data := []byte(spec)
	if path, ok := strings.CutPrefix(spec, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, usageErrorf("read %s: %v", path, err)
		}
		data = b
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, usageErrorf("invalid JSON body: %v", err)
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// applySets adds key=value pairs to body. Values that parse as JSON keep
// their type; anything else is a string.
func applySets(body map[string]any, sets []string) error {
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return usageErrorf("invalid --set %q: expected key=value", kv)
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			body[k] = parsed
		} else {
			body[k] = v
		}
	}
	return nil
}

func linkedContact(id int64) []map[string]any {
	return []map[string]any{{"id": id, "type": "Contact"}}
}

func tagList(tags []string) []map[string]any {
	out := make([]map[string]any, len(tags))
	for i, t := range tags {
		out[i] = map[string]any{"name": t}
	}
	return out
}

// setIfChanged copies a string flag into body when it was given.
func setIfChanged(cmd *cobra.Command, body map[string]any, flag, key, value string) {
	if cmd.Flags().Changed(flag) {
		body[key] = value
	}
}

// resourceCmds holds the shared get and delete builders for one resource.
type resourceCmds struct {
	app *App
	res wealthbox.Resource
}

func (r resourceCmds) get() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a " + strings.ToLower(r.res.Label) + " by id",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			client, err := r.app.api(cmd.Context())
			if err != nil {
				return err
			}
			data, err := client.GetRecord(cmd.Context(), r.res, id)
			if err != nil {
				return err
			}
			return r.app.emit(cmd.Context(), data)
		},
	}
}

func (r resourceCmds) delete() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + strings.ToLower(r.res.Label),
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			if !confirm {
				return usageErrorf("refusing to delete %s %d without --confirm", strings.ToLower(r.res.Label), id)
			}
			ok, err := r.app.guardWrite(cmd)
			if !ok {
				return err
			}
			client, err := r.app.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteRecord(cmd.Context(), r.res, id); err != nil {
				return err
			}
			r.app.println(fmt.Sprintf("%s %d deleted.", r.res.Label, id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm deletion")
	return cmd
}

// list runs a list request and emits the result.
func (r resourceCmds) list(cmd *cobra.Command, params map[string]string, limit int) error {
	client, err := r.app.api(cmd.Context())
	if err != nil {
		return err
	}
	data, err := client.ListRecords(cmd.Context(), r.res, queryParams(params), limit)
	if err != nil {
		return err
	}
	return r.app.emit(cmd.Context(), data)
}

// create posts body after the write guard.
func (r resourceCmds) create(cmd *cobra.Command, body map[string]any) error {
	ok, err := r.app.guardWrite(cmd)
	if !ok {
		return err
	}
	client, err := r.app.api(cmd.Context())
	if err != nil {
		return err
	}
	data, err := client.CreateRecord(cmd.Context(), r.res, body)
	if err != nil {
		return err
	}
	return r.app.emit(cmd.Context(), data)
}

// update puts body after the write guard. An empty body is rejected.
func (r resourceCmds) update(cmd *cobra.Command, id int64, body map[string]any) error {
	if len(body) == 0 {
		return usageError("nothing to update: pass at least one field flag, --set or --from-json")
	}
	ok, err := r.app.guardWrite(cmd)
	if !ok {
		return err
	}
	client, err := r.app.api(cmd.Context())
	if err != nil {
		return err
	}
	data, err := client.UpdateRecord(cmd.Context(), r.res, id, body)
	if err != nil {
		return err
	}
	return r.app.emit(cmd.Context(), data)
}

func queryParams(params map[string]string) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
