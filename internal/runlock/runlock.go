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

// Package runlock serializes batch exports into one output directory. The
// file locker covers a single host; the Redis locker covers several hosts
// writing to shared storage.
package runlock

import (
	"context"
	"errors"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("export directory is locked by another run")

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker acquires the lock of an output directory without blocking.
type Locker interface {
	Acquire(ctx context.Context, dir string) (Lock, error)
}
