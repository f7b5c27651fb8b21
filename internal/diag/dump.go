// Package diag writes gzip-compressed pool diagnostics snapshots: a
// serializable struct captured periodically and compressed with
// klauspost/compress, readable back with any standard gzip reader.
package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"redisconn/internal/pool"
)

// Snapshot is the JSON shape written into each diagnostics dump.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Idle           int       `json:"idle"`
	Active         int       `json:"active"`
	Total          int       `json:"total"`
	Waiters        int       `json:"waiters"`
	CreatedTotal   int64     `json:"createdTotal"`
	DestroyedTotal int64     `json:"destroyedTotal"`
}

// snapshotFrom stamps a pool.Stats snapshot with a capture time.
func snapshotFrom(s pool.Stats, now time.Time) Snapshot {
	return Snapshot{
		Timestamp:      now,
		Idle:           s.Idle,
		Active:         s.Active,
		Total:          s.Total,
		Waiters:        s.Waiters,
		CreatedTotal:   s.CreatedTotal,
		DestroyedTotal: s.DestroyedTotal,
	}
}

// Dump writes one gzip-compressed JSON Snapshot of p's current state to w.
// The gzip writer is closed before Dump returns, flushing a complete
// member; callers may append further Dump calls to the same w to build a
// multi-member gzip stream (readable by any standard gzip reader).
func Dump(w io.Writer, p *pool.Pool, now time.Time) error {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(snapshotFrom(p.Stats(), now)); err != nil {
		gz.Close()
		return fmt.Errorf("diag: encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("diag: flush gzip: %w", err)
	}
	return nil
}

// ReadSnapshot wraps gzip decompression plus JSON decoding for reading back
// Dump's output, e.g. in an operator's log-inspection tool.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("diag: open gzip: %w", err)
	}
	defer gz.Close()
	var snap Snapshot
	if err := json.NewDecoder(gz).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("diag: decode snapshot: %w", err)
	}
	return snap, nil
}
