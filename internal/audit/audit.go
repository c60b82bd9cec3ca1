// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit appends screening records to the per-snapshot audit
// log. Implements: prd004-audit (R1-R3);
//
//	docs/ARCHITECTURE § Audit Log.
//
// The log is JSON Lines: one self-contained object per screening
// invocation, append-only, never rewritten. A mutex serializes appends
// so concurrent screening calls cannot interleave partial records, and
// each append is fsynced before the recorder reports success — a
// screening result the caller has seen is always already on disk.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Recorder appends audit entries to one append-only log file.
type Recorder struct {
	mu   sync.Mutex
	path string
}

// NewRecorder returns a recorder for the given log path. The file is
// created on first append.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends one entry as a single JSON line and syncs it to disk
// before returning. Prior entries are never touched.
func (r *Recorder) Record(entry types.AuditEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshaling audit entry for %q: %v", types.ErrStorage, entry.Query, err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening audit log %s: %v", types.ErrStorage, r.path, err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: appending to audit log %s: %v", types.ErrStorage, r.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing audit log %s: %v", types.ErrStorage, r.path, err)
	}
	return nil
}

// Read returns every entry in the log, oldest first. A missing log file
// yields an empty history, not an error: a snapshot nobody has screened
// against has no audit trail yet.
func Read(path string) ([]types.AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: opening audit log %s: %v", types.ErrStorage, path, err)
	}
	defer f.Close()

	var entries []types.AuditEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry types.AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("%w: malformed audit entry in %s: %v", types.ErrStorage, path, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading audit log %s: %v", types.ErrStorage, path, err)
	}
	return entries, nil
}
