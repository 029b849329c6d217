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

// Package runlog provides an optional Postgres ledger of batch export runs.
// Only run counters are stored, never CRM data.
package runlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run statuses.
const (
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusAborted             = "aborted"
)

// Run is one batch export recorded in the ledger.
type Run struct {
	ID         string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Selected   int
	Exported   int
	Failed     int
	FullExport bool
	DryRun     bool
	Status     string
}

// Store records runs in the export_runs table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a ledger backed by the given Postgres pool. It ensures
// the export_runs table exists on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure export_runs schema: %w", err)
	}
	slog.Debug("export run ledger initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS export_runs (
			run_id      TEXT PRIMARY KEY,
			output_dir  TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			selected    INTEGER DEFAULT 0,
			exported    INTEGER DEFAULT 0,
			failed      INTEGER DEFAULT 0,
			full_export BOOLEAN DEFAULT FALSE,
			dry_run     BOOLEAN DEFAULT FALSE,
			status      TEXT DEFAULT 'running'
		);
		CREATE INDEX IF NOT EXISTS idx_export_runs_started ON export_runs(started_at DESC);
	`)
	return err
}

// Start inserts r with status running.
func (s *Store) Start(ctx context.Context, r Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO export_runs
			(run_id, output_dir, started_at, selected, full_export, dry_run, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.OutputDir, r.StartedAt, r.Selected, r.FullExport, r.DryRun, StatusRunning)
	return err
}

// Finish stores the final counters and status of r.
func (s *Store) Finish(ctx context.Context, r Run) error {
	finished := time.Now()
	if r.FinishedAt != nil {
		finished = *r.FinishedAt
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE export_runs
		SET finished_at = $1, selected = $2, exported = $3, failed = $4, status = $5
		WHERE run_id = $6
	`, finished, r.Selected, r.Exported, r.Failed, r.Status, r.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("export run %s not found", r.ID)
	}
	return nil
}

// Get returns one run, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT run_id, output_dir, started_at, finished_at, selected,
		       exported, failed, full_export, dry_run, status
		FROM export_runs
		WHERE run_id = $1
	`, id)
	return scanRun(row)
}

// Recent returns the newest runs first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, output_dir, started_at, finished_at, selected,
		       exported, failed, full_export, dry_run, status
		FROM export_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRuns(rows)
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.OutputDir, &r.StartedAt, &r.FinishedAt, &r.Selected,
		&r.Exported, &r.Failed, &r.FullExport, &r.DryRun, &r.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRuns(rows pgx.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.OutputDir, &r.StartedAt, &r.FinishedAt, &r.Selected,
			&r.Exported, &r.Failed, &r.FullExport, &r.DryRun, &r.Status,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
