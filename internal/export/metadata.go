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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/natefinch/atomic"

	"github.com/bcem/wealthbox/internal/wbtime"
)

// MetaFilename is the bookkeeping file kept in an export directory.
const MetaFilename = ".export-meta.json"

const metaVersion = 1

// Metadata records the state of the last export into a directory.
type Metadata struct {
	// LastExport is the start time of the last fully successful run, nil
	// before the first one.
	LastExport *time.Time
	// ContactFiles maps contact ids to the filename written for them.
	ContactFiles map[int64]string
	Version      int
}

type metaFile struct {
	LastExport   *string           `json:"last_export"`
	Version      int               `json:"version"`
	ContactFiles map[string]string `json:"contact_files"`
}

// LoadMetadata reads the metadata of dir. A missing or unreadable file, or
// one that does not parse, reads as "no prior export".
func LoadMetadata(dir string) *Metadata {
	meta := &Metadata{ContactFiles: map[int64]string{}, Version: metaVersion}

	path := filepath.Join(dir, MetaFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("export metadata unreadable, starting fresh", "path", path, "error", err)
		}
		return meta
	}

	var f metaFile
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Warn("export metadata corrupt, starting fresh", "path", path, "error", err)
		return meta
	}

	if f.LastExport != nil && *f.LastExport != "" {
		t, ok := wbtime.Parse(*f.LastExport)
		if !ok {
			slog.Warn("export metadata has invalid last_export, starting fresh", "path", path, "value", *f.LastExport)
			return meta
		}
		meta.LastExport = &t
	}
	for k, v := range f.ContactFiles {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			slog.Warn("export metadata has invalid contact id, starting fresh", "path", path, "key", k)
			return &Metadata{ContactFiles: map[int64]string{}, Version: metaVersion}
		}
		meta.ContactFiles[id] = v
	}
	if f.Version != 0 {
		meta.Version = f.Version
	}
	return meta
}

// Save writes the metadata to dir, replacing the previous file atomically.
func (m *Metadata) Save(dir string) error {
	f := metaFile{
		Version:      m.Version,
		ContactFiles: make(map[string]string, len(m.ContactFiles)),
	}
	if f.Version == 0 {
		f.Version = metaVersion
	}
	if m.LastExport != nil {
		s := m.LastExport.UTC().Format(time.RFC3339Nano)
		f.LastExport = &s
	}
	for id, name := range m.ContactFiles {
		f.ContactFiles[strconv.FormatInt(id, 10)] = name
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export metadata: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, MetaFilename)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
