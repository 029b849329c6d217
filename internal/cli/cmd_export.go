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
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/natefinch/atomic"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/bcem/wealthbox/internal/config"
	"github.com/bcem/wealthbox/internal/export"
	"github.com/bcem/wealthbox/internal/output"
	"github.com/bcem/wealthbox/internal/runlock"
	"github.com/bcem/wealthbox/internal/runlog"
)

func (a *App) newContactsExportCmd() *cobra.Command {
	var (
		file        string
		toStdout    bool
		workspaceID int64
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a contact and its activity as markdown",
		Args:  idArgs("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID("id", args[0])
			ctx := cmd.Context()
			client, err := a.api(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workspace-id") {
				workspaceID = a.cfg.WorkspaceID
			}

			doc, err := export.ExportContact(ctx, client, id, nil, workspaceID)
			if err != nil {
				return err
			}
			if toStdout {
				_, err := fmt.Fprint(a.Stdout, doc.Markdown)
				return err
			}
			if file == "" {
				file = export.ContactFilename(doc.Title, id)
			}
			if err := atomic.WriteFile(file, strings.NewReader(doc.Markdown)); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			slog.Info("contact exported", "contact_id", id, "file", file, "entries", doc.Entries)
			a.println("Exported to " + file)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "output", "o", "", "output file (default {name}-{id}.md)")
	f.BoolVar(&toStdout, "stdout", false, "write markdown to stdout")
	f.Int64Var(&workspaceID, "workspace-id", 0, "workspace id for web app links")
	return cmd
}

func (a *App) newContactsExportAllCmd() *cobra.Command {
	var (
		dir          string
		contactType  string
		full         bool
		lookbackDays int
		workspaceID  int64
	)
	cmd := &cobra.Command{
		Use:   "export-all",
		Short: "Incrementally export every changed contact into a directory",
		Long: `export-all writes one markdown file per contact into --dir. After the
first run only contacts that changed since the last successful run are
exported again; --full re-exports everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.api(ctx)
			if err != nil {
				return err
			}
			cfg := a.cfg
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Export.Dir
			}
			if !cmd.Flags().Changed("lookback-days") {
				lookbackDays = cfg.Export.LookbackDays
			}
			if !cmd.Flags().Changed("workspace-id") {
				workspaceID = cfg.WorkspaceID
			}
			if dir == "" {
				return usageError("no export directory: pass --dir or set export.dir")
			}
			if lookbackDays < 0 {
				return usageErrorf("invalid --lookback-days %d: must not be negative", lookbackDays)
			}

			locker, closeLocker, err := openLocker(cfg)
			if err != nil {
				return err
			}
			defer closeLocker()

			ledger, closeLedger, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			bcfg := export.BatchConfig{
				Source:       client,
				Locker:       locker,
				WorkspaceID:  workspaceID,
				LookbackDays: &lookbackDays,
			}
			if ledger != nil {
				bcfg.Ledger = ledger
			}
			result, err := export.NewBatch(bcfg).Run(ctx, export.BatchRequest{
				Dir:         dir,
				ContactType: contactType,
				Full:        full,
				DryRun:      a.opts.dryRun,
			})
			if err != nil {
				return err
			}
			return a.reportBatch(dir, result)
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "dir", "", "export directory (default from config)")
	f.StringVar(&contactType, "type", "", "only export contacts of this type")
	f.BoolVar(&full, "full", false, "ignore the previous run and export everything")
	f.IntVar(&lookbackDays, "lookback-days", export.DefaultLookbackDays, "how far back task comments are checked")
	f.Int64Var(&workspaceID, "workspace-id", 0, "workspace id for web app links")
	return cmd
}

func (a *App) reportBatch(dir string, r *export.BatchResult) error {
	if a.opts.dryRun {
		a.println(fmt.Sprintf("Dry run: would export %s contacts to %s", humanize.Comma(int64(r.Selected)), dir))
		files := make([]string, 0, len(r.Files))
		for _, name := range r.Files {
			files = append(files, name)
		}
		sort.Strings(files)
		for _, name := range files {
			a.println("  " + name)
		}
	} else {
		a.println(fmt.Sprintf("Exported %s of %s contacts to %s in %s",
			humanize.Comma(int64(r.Exported)), humanize.Comma(int64(r.Selected)), dir, r.Elapsed.Round(time.Millisecond)))
	}
	for _, f := range r.Failures {
		a.println(fmt.Sprintf("  failed: contact %d: %v", f.ContactID, f.Err))
	}

	switch {
	case r.Aborted:
		return &ExitError{Code: CodeAborted, Message: "export interrupted; the next run resumes from the previous export", ExitCode: ExitGeneral}
	case len(r.Failures) > 0:
		return &ExitError{
			Code:     CodeIncomplete,
			Message:  fmt.Sprintf("%d contact(s) failed to export; they will be retried on the next run", len(r.Failures)),
			ExitCode: ExitGeneral,
		}
	}
	return nil
}

func (a *App) newContactsExportHistoryCmd() *cobra.Command {
	var (
		limit int
		runID string
	)
	cmd := &cobra.Command{
		Use:   "export-history",
		Short: "Show recent export-all runs from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := a.config()
			if err != nil {
				return err
			}
			ledger, closeLedger, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLedger()
			if ledger == nil {
				return &ExitError{
					Code:     CodeNoLedger,
					Message:  "no run ledger configured: set ledger.database_url or WEALTHBOX_DATABASE_URL",
					ExitCode: ExitValidation,
				}
			}

			if runID != "" {
				rec, err := lookupRun(ctx, ledger, runID)
				if err != nil {
					return err
				}
				return output.WriteValue(a.Stdout, rec, a.outputOptions())
			}

			runs, err := ledger.Recent(ctx, limit)
			if err != nil {
				return err
			}
			records := make([]runRecord, len(runs))
			for i, r := range runs {
				records[i] = newRunRecord(r)
			}
			return output.WriteValue(a.Stdout, records, a.outputOptions())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "show a single run by ID")
	cmd.MarkFlagsMutuallyExclusive("run", "limit")
	return cmd
}

type runGetter interface {
	Get(ctx context.Context, id string) (*runlog.Run, error)
}

// lookupRun fetches one ledger entry; a missing run is NOT_FOUND.
func lookupRun(ctx context.Context, runs runGetter, id string) (runRecord, error) {
	r, err := runs.Get(ctx, id)
	if err != nil {
		return runRecord{}, fmt.Errorf("get export run %s: %w", id, err)
	}
	if r == nil {
		return runRecord{}, &ExitError{
			Code:     CodeNotFound,
			Message:  fmt.Sprintf("export run %s not found", id),
			ExitCode: ExitNotFound,
		}
	}
	return newRunRecord(*r), nil
}

type runRecord struct {
	RunID      string `json:"run_id"`
	OutputDir  string `json:"output_dir"`
	StartedAt  string `json:"started_at"`
	Started    string `json:"started"`
	FinishedAt string `json:"finished_at"`
	Selected   int    `json:"selected"`
	Exported   int    `json:"exported"`
	Failed     int    `json:"failed"`
	FullExport bool   `json:"full_export"`
	DryRun     bool   `json:"dry_run"`
	Status     string `json:"status"`
}

func newRunRecord(r runlog.Run) runRecord {
	rec := runRecord{
		RunID:      r.ID,
		OutputDir:  r.OutputDir,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		Started:    humanize.Time(r.StartedAt),
		Selected:   r.Selected,
		Exported:   r.Exported,
		Failed:     r.Failed,
		FullExport: r.FullExport,
		DryRun:     r.DryRun,
		Status:     r.Status,
	}
	if r.FinishedAt != nil {
		rec.FinishedAt = r.FinishedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

// openLocker returns a Redis locker when redis.url is set, else a file lock.
func openLocker(cfg *config.Config) (runlock.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return runlock.FileLocker{}, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	slog.Debug("using redis export lock", "addr", opts.Addr)
	return runlock.NewRedisLocker(rdb, runlock.DefaultTTL), func() { rdb.Close() }, nil
}

// openLedger connects the run ledger; it returns nil when none is
// configured.
func openLedger(ctx context.Context, cfg *config.Config) (*runlog.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect run ledger: %w", err)
	}
	store, err := runlog.NewStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
