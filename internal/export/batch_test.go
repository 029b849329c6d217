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
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcem/wealthbox/internal/models"
	"github.com/bcem/wealthbox/internal/runlock"
	"github.com/bcem/wealthbox/internal/runlog"
)

// --- Mock ledger ---

type mockLedger struct {
	mu       sync.Mutex
	started  []runlog.Run
	finished []runlog.Run
}

func (m *mockLedger) Start(_ context.Context, r runlog.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, r)
	return nil
}

func (m *mockLedger) Finish(_ context.Context, r runlog.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, r)
	return nil
}

// --- Mock locker ---

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (runlock.Lock, error) {
	return nil, runlock.ErrLocked
}

func newBatchSource(t *testing.T) *fakeSource {
	src := newFakeSource()
	src.addContact(t, `{"id": 1, "name": "Jane Doe", "type": "Person"}`)
	src.addContact(t, `{"id": 2, "name": "Acme Corp", "type": "Organization"}`)
	src.notes[1] = []models.Note{{ID: 10, CreatedAt: "2024-01-01", Content: models.Body{Plain: "hello"}}}
	return src
}

func TestBatch_FirstRunExportsEverything(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	src := newBatchSource(t)
	ledger := &mockLedger{}

	res, err := NewBatch(BatchConfig{Source: src, Ledger: ledger}).Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 2, res.Exported)
	assert.Empty(t, res.Failures)
	assert.Equal(t, map[int64]string{1: "jane-doe-1.md", 2: "acme-corp-2.md"}, res.Files)
	assert.NotEmpty(t, res.RunID)

	body, err := os.ReadFile(filepath.Join(dir, "jane-doe-1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "# Jane Doe")
	assert.Contains(t, string(body), "hello")

	meta := LoadMetadata(dir)
	require.NotNil(t, meta.LastExport)
	assert.Equal(t, res.Files, meta.ContactFiles)

	require.Len(t, ledger.started, 1)
	require.Len(t, ledger.finished, 1)
	assert.Equal(t, res.RunID, ledger.finished[0].ID)
	assert.Equal(t, runlog.StatusCompleted, ledger.finished[0].Status)
	assert.True(t, ledger.started[0].FullExport)
}

func TestNewBatch_LookbackDays(t *testing.T) {
	zero, negative, week := 0, -3, 7
	cases := []struct {
		in   *int
		want int
	}{
		{nil, DefaultLookbackDays},
		{&zero, 0},
		{&week, 7},
		{&negative, DefaultLookbackDays},
	}
	for _, tc := range cases {
		b := NewBatch(BatchConfig{Source: newFakeSource(), LookbackDays: tc.in})
		assert.Equal(t, tc.want, b.lookbackDays)
	}
}

func TestBatch_IncrementalSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := newBatchSource(t)
	b := NewBatch(BatchConfig{Source: src})

	_, err := b.Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)

	res, err := b.Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)
	assert.Zero(t, res.Selected)
	assert.Zero(t, res.Exported)
}

func TestBatch_IncrementalExportsDirty(t *testing.T) {
	dir := t.TempDir()
	src := newBatchSource(t)
	b := NewBatch(BatchConfig{Source: src})

	_, err := b.Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)

	src.updated = []models.Contact{src.contacts[2]}
	res, err := b.Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{2: "acme-corp-2.md"}, res.Files)

	// Mappings from the earlier run survive.
	assert.Len(t, LoadMetadata(dir).ContactFiles, 2)
}

func TestBatch_FailureKeepsLastExport(t *testing.T) {
	dir := t.TempDir()
	src := newBatchSource(t)
	src.getErr[2] = errors.New("boom")
	ledger := &mockLedger{}

	res, err := NewBatch(BatchConfig{Source: src, Ledger: ledger}).Run(context.Background(), BatchRequest{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Exported)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(2), res.Failures[0].ContactID)
	assert.Equal(t, runlog.StatusCompletedWithErrors, res.Status())

	meta := LoadMetadata(dir)
	assert.Nil(t, meta.LastExport)
	assert.Equal(t, map[int64]string{1: "jane-doe-1.md"}, meta.ContactFiles)
	assert.Equal(t, 1, ledger.finished[0].Failed)
}

func TestBatch_ReusesExistingFilename(t *testing.T) {
	dir := t.TempDir()
	meta := LoadMetadata(dir)
	meta.ContactFiles[1] = "custom.md"
	require.NoError(t, meta.Save(dir))

	res, err := NewBatch(BatchConfig{Source: newBatchSource(t)}).Run(context.Background(), BatchRequest{Dir: dir, Full: true})
	require.NoError(t, err)
	assert.Equal(t, "custom.md", res.Files[1])
	_, err = os.Stat(filepath.Join(dir, "custom.md"))
	assert.NoError(t, err)
}

func TestBatch_TypeFilter(t *testing.T) {
	src := newBatchSource(t)
	res, err := NewBatch(BatchConfig{Source: src}).Run(context.Background(), BatchRequest{Dir: t.TempDir(), ContactType: models.TypeOrganization})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{2: "acme-corp-2.md"}, res.Files)
}

func TestBatch_DryRunWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	res, err := NewBatch(BatchConfig{Source: newBatchSource(t), Locker: busyLocker{}}).Run(context.Background(), BatchRequest{Dir: dir, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Exported)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestBatch_Locked(t *testing.T) {
	_, err := NewBatch(BatchConfig{Source: newBatchSource(t), Locker: busyLocker{}}).Run(context.Background(), BatchRequest{Dir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, IsLocked(err))
}

func TestBatch_CancelledAborts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ledger := &mockLedger{}

	res, err := NewBatch(BatchConfig{Source: newBatchSource(t), Ledger: ledger}).Run(ctx, BatchRequest{Dir: dir})
	require.NoError(t, err)
	assert.True(t, res.Aborted)
	assert.Zero(t, res.Exported)
	assert.Nil(t, LoadMetadata(dir).LastExport)
	assert.Equal(t, runlog.StatusAborted, ledger.finished[0].Status)
}
