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

// Package cli implements the wb command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/config"
	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/output"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

// App holds the state of one wb invocation.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Terminal reports whether Stdout is a terminal.
	Terminal func() bool

	root   *cobra.Command
	opts   globalOptions
	cfg    *config.Config
	client *wealthbox.Client
	users  models.UserMap
}

type globalOptions struct {
	readonly  bool
	json      bool
	table     bool
	csv       bool
	noHeaders bool
	fields    string
	head      int
	count     bool
	oneline   bool
	output    string

	verbose bool
	debug   bool
	logJSON bool

	timeout int
	retry   int
	dryRun  bool

	configPath   string
	resolveUsers bool
}

// New returns an App wired to the process's standard streams.
func New() *App {
	return &App{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Terminal: output.StdoutIsTerminal,
	}
}

// Execute runs wb with args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		return a.reportError(err)
	}
	return ExitSuccess
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wb",
		Short: "WealthBox CRM command line interface",
		Long: `wb gives command-line access to WealthBox CRM data, for people and
for scripts.

Quick start:
  export WEALTHBOX_ACCESS_TOKEN="your-token"
  wb contacts list --limit 5
  wb contacts get 12345

Scripted, read-only use:
  wb --readonly contacts list --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			a.setupLogging()
			return nil
		},
	}
	a.root = root
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	f := root.PersistentFlags()
	f.BoolVar(&a.opts.readonly, "readonly", false, "block all write operations")
	f.BoolVar(&a.opts.json, "json", false, "output as JSON")
	f.BoolVar(&a.opts.table, "table", false, "output as table")
	f.BoolVar(&a.opts.csv, "csv", false, "output as CSV")
	f.BoolVar(&a.opts.noHeaders, "no-headers", false, "omit headers in table/CSV output")
	f.StringVar(&a.opts.fields, "fields", "", "comma-separated fields to include")
	f.IntVar(&a.opts.head, "head", 0, "show only the first N records")
	f.BoolVar(&a.opts.count, "count", false, "output the record count only")
	f.BoolVar(&a.opts.oneline, "oneline", false, "one JSON object per line")
	f.StringVar(&a.opts.output, "output", "", "write output to file")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "verbose logging")
	f.BoolVar(&a.opts.debug, "debug", false, "log every request")
	f.BoolVar(&a.opts.logJSON, "log-json", false, "log as JSON")
	f.IntVar(&a.opts.timeout, "timeout", 60, "request timeout in seconds (default from config)")
	f.IntVar(&a.opts.retry, "retry", 3, "retries on 429/5xx (default from config)")
	f.BoolVar(&a.opts.dryRun, "dry-run", false, "preview write operations without executing")
	f.StringVar(&a.opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wealthbox/config.yaml)")
	f.BoolVar(&a.opts.resolveUsers, "resolve-users", false, "replace creator/assigned_to ids with user names")

	root.AddCommand(a.newAuthCmd())
	root.AddCommand(a.newContactsCmd())
	root.AddCommand(a.newTasksCmd())
	root.AddCommand(a.newNotesCmd())
	root.AddCommand(a.newEventsCmd())
	root.AddCommand(a.newWorkflowsCmd())
	root.AddCommand(a.newOpportunitiesCmd())
	root.AddCommand(a.newProjectsCmd())
	return root
}

func (a *App) setupLogging() {
	level := slog.LevelInfo
	if a.opts.verbose || a.opts.debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(a.Stderr, hopts)
	if a.opts.logJSON {
		h = slog.NewJSONHandler(a.Stderr, hopts)
	}
	slog.SetDefault(slog.New(h))
}

// config loads settings once per invocation.
func (a *App) config() (*config.Config, error) {
	if a.cfg == nil {
		cfg, err := config.Load(a.opts.configPath)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
		slog.Debug("config loaded", "path", cfg.Path, "base_url", cfg.BaseURL, "auth", cfg.Auth.Method)
	}
	return a.cfg, nil
}

// api returns the WealthBox client, authenticating on first use.
func (a *App) api(ctx context.Context) (*wealthbox.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	wc := wealthbox.Config{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		RetryMax: cfg.Retries,
		Logger:   slog.Default(),
	}
	flags := a.root.PersistentFlags()
	if flags.Changed("timeout") {
		if a.opts.timeout <= 0 {
			return nil, usageError("--timeout must be positive")
		}
		wc.Timeout = time.Duration(a.opts.timeout) * time.Second
	}
	if flags.Changed("retry") {
		if a.opts.retry < 0 {
			return nil, usageError("--retry must not be negative")
		}
		wc.RetryMax = a.opts.retry
	}

	switch cfg.Auth.Method {
	case config.AuthOAuth:
		hc, err := cfg.Auth.OAuth.HTTPClient(ctx, nil)
		if err != nil {
			return nil, &ExitError{Code: CodeAuthRequired, Message: err.Error(), ExitCode: ExitAuth}
		}
		wc.HTTPClient = hc
	default:
		token, source, err := cfg.ResolveToken()
		if err != nil {
			return nil, &ExitError{
				Code:     CodeAuthRequired,
				Message:  "No API token found. Set WEALTHBOX_ACCESS_TOKEN or run: wb auth set-token <token>",
				ExitCode: ExitAuth,
			}
		}
		slog.Debug("access token resolved", "source", source)
		wc.Token = token
	}

	a.client = wealthbox.NewClient(wc)
	return a.client, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.Stdout, args...)
}
