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

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/runlock"
	"github.com/bcem/wealthbox/internal/runlog"
)

// Ledger records batch runs. *runlog.Store implements it.
type Ledger interface {
	Start(ctx context.Context, r runlog.Run) error
	Finish(ctx context.Context, r runlog.Run) error
}

var _ Ledger = (*runlog.Store)(nil)

// BatchRequest defines the scope of one export-all run.
type BatchRequest struct {
	Dir string
	// ContactType restricts candidates to one contact type (Person,
	// Household, ...). Empty means every type.
	ContactType string
	// Full ignores the previous run and exports every candidate.
	Full bool
	// DryRun computes the selection and renders nothing to disk.
	DryRun bool
}

// ContactFailure is a contact that could not be exported.
type ContactFailure struct {
	ContactID int64
	Err       error
}

// BatchResult summarises a completed run.
type BatchResult struct {
	RunID string
	// Selected counts the candidates chosen for export.
	Selected int
	Exported int
	Failures []ContactFailure
	// Files maps exported contact ids to the filename written (or that
	// would be written on a dry run).
	Files   map[int64]string
	Aborted bool
	Elapsed time.Duration
}

// Status is the ledger status for the result.
func (r *BatchResult) Status() string {
	switch {
	case r.Aborted:
		return runlog.StatusAborted
	case len(r.Failures) > 0:
		return runlog.StatusCompletedWithErrors
	default:
		return runlog.StatusCompleted
	}
}

// Batch exports many contacts into one directory, incrementally.
type Batch struct {
	src          Source
	locker       runlock.Locker
	ledger       Ledger
	workspaceID  int64
	lookbackDays int
}

// BatchConfig holds dependencies for the batch runner. Locker defaults to a
// runlock.FileLocker; Ledger is optional. A nil LookbackDays uses
// DefaultLookbackDays; zero checks comments only on tasks created since the
// last export.
type BatchConfig struct {
	Source       Source
	Locker       runlock.Locker
	Ledger       Ledger
	WorkspaceID  int64
	LookbackDays *int
}

// NewBatch creates a batch runner.
func NewBatch(cfg BatchConfig) *Batch {
	locker := cfg.Locker
	if locker == nil {
		locker = runlock.FileLocker{}
	}
	lookback := DefaultLookbackDays
	if cfg.LookbackDays != nil && *cfg.LookbackDays >= 0 {
		lookback = *cfg.LookbackDays
	}
	return &Batch{
		src:          cfg.Source,
		locker:       locker,
		ledger:       cfg.Ledger,
		workspaceID:  cfg.WorkspaceID,
		lookbackDays: lookback,
	}
}

// Run exports every contact that changed since the last successful run into
// req.Dir. Per-contact failures are logged and collected; they keep
// last_export from advancing so those contacts are picked up next time.
// Errors are returned only when the run could not start or its metadata
// could not be saved.
func (b *Batch) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{
		RunID: uuid.NewString(),
		Files: map[int64]string{},
	}

	if !req.DryRun {
		if err := os.MkdirAll(req.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
		lock, err := b.locker.Acquire(ctx, req.Dir)
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", req.Dir, err)
		}
		defer func() {
			// The run context may already be cancelled.
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("releasing export lock failed", "dir", req.Dir, "error", err)
			}
		}()
	}

	meta := LoadMetadata(req.Dir)
	lastExport := meta.LastExport
	if req.Full {
		lastExport = nil
	}

	slog.Info("starting batch export",
		"run_id", result.RunID,
		"dir", req.Dir,
		"type", req.ContactType,
		"full", lastExport == nil,
		"dry_run", req.DryRun,
	)

	cache := NewCache()
	selection, err := FindDirtyContacts(ctx, b.src, lastExport, cache, b.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("find changed contacts: %w", err)
	}

	candidates, err := b.candidates(ctx, req.ContactType, selection)
	if err != nil {
		return nil, err
	}
	result.Selected = len(candidates)

	run := runlog.Run{
		ID:         result.RunID,
		OutputDir:  absDir(req.Dir),
		StartedAt:  start,
		Selected:   result.Selected,
		FullExport: lastExport == nil,
		DryRun:     req.DryRun,
	}
	b.ledgerStart(ctx, run)

	for _, c := range candidates {
		if ctx.Err() != nil {
			result.Aborted = true
			break
		}
		filename := meta.ContactFiles[c.ID]
		if filename == "" {
			filename = ContactFilename(c.Name, c.ID)
		}

		if err := b.exportOne(ctx, cache, req, c.ID, filename); err != nil {
			if ctx.Err() != nil {
				result.Aborted = true
				break
			}
			slog.Error("contact export failed", "contact_id", c.ID, "error", err)
			result.Failures = append(result.Failures, ContactFailure{ContactID: c.ID, Err: err})
			continue
		}
		result.Files[c.ID] = filename
		result.Exported++
	}

	if !req.DryRun {
		for id, name := range result.Files {
			meta.ContactFiles[id] = name
		}
		if len(result.Failures) == 0 && !result.Aborted {
			started := start.UTC()
			meta.LastExport = &started
		}
		if err := meta.Save(req.Dir); err != nil {
			return result, fmt.Errorf("save export metadata: %w", err)
		}
	}

	result.Elapsed = time.Since(start)
	finished := time.Now()
	run.FinishedAt = &finished
	run.Exported = result.Exported
	run.Failed = len(result.Failures)
	run.Status = result.Status()
	b.ledgerFinish(ctx, run)

	slog.Info("batch export complete",
		"run_id", result.RunID,
		"selected", result.Selected,
		"exported", result.Exported,
		"failed", len(result.Failures),
		"aborted", result.Aborted,
		"elapsed", result.Elapsed,
	)

	return result, nil
}

func (b *Batch) candidates(ctx context.Context, contactType string, selection Selection) ([]models.Contact, error) {
	if !selection.All() && selection.Len() == 0 {
		return nil, nil
	}
	filters := url.Values{}
	if contactType != "" {
		filters.Set("type", contactType)
	}
	contacts, err := b.src.ListContacts(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]models.Contact, 0, len(contacts))
	seen := make(map[int64]bool, len(contacts))
	for _, c := range contacts {
		if c.ID == 0 || seen[c.ID] || !selection.Contains(c.ID) {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out, nil
}

func (b *Batch) exportOne(ctx context.Context, cache *Cache, req BatchRequest, contactID int64, filename string) error {
	doc, err := ExportContact(ctx, b.src, contactID, cache, b.workspaceID)
	if err != nil {
		return err
	}
	if req.DryRun {
		slog.Info("dry run: would write contact export", "contact_id", contactID, "file", filename)
		return nil
	}
	path := filepath.Join(req.Dir, filename)
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(doc.Markdown))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("contact exported", "contact_id", contactID, "file", filename, "entries", doc.Entries)
	return nil
}

func (b *Batch) ledgerStart(ctx context.Context, run runlog.Run) {
	if b.ledger == nil {
		return
	}
	if err := b.ledger.Start(ctx, run); err != nil {
		slog.Warn("recording export run start failed", "run_id", run.ID, "error", err)
	}
}

func (b *Batch) ledgerFinish(ctx context.Context, run runlog.Run) {
	if b.ledger == nil {
		return
	}
	if err := b.ledger.Finish(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("recording export run result failed", "run_id", run.ID, "error", err)
	}
}

// ContactFilename is the default export filename of a contact:
// "{slug}-{id}.md", with "contact" standing in for an empty slug.
func ContactFilename(name string, id int64) string {
	slug := Slugify(name)
	if slug == "" {
		slug = "contact"
	}
	return slug + "-" + strconv.FormatInt(id, 10) + ".md"
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// IsLocked reports whether err came from contention on the directory lock.
func IsLocked(err error) bool { return errors.Is(err, runlock.ErrLocked) }
