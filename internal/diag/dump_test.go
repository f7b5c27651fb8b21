package diag

import (
	"bytes"
	"testing"
	"time"

	"redisconn/internal/connx"
	"redisconn/internal/logger"
	"redisconn/internal/pool"
)

func TestDumpAndReadSnapshotRoundTrip(t *testing.T) {
	p := pool.New(func() (*connx.Connection, error) {
		return nil, nil
	}, pool.Options{Size: 3, AcquireTimeout: time.Second}, logger.Nop())
	defer p.Shutdown()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	if err := Dump(&buf, p, now); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	snap, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if !snap.Timestamp.Equal(now) {
		t.Fatalf("snap.Timestamp = %v, want %v", snap.Timestamp, now)
	}
	if snap.Total != 0 || snap.Idle != 0 || snap.Active != 0 {
		t.Fatalf("expected an empty pool snapshot, got %+v", snap)
	}
}

func TestDumpProducesGzipMagicBytes(t *testing.T) {
	p := pool.New(func() (*connx.Connection, error) {
		return nil, nil
	}, pool.Options{Size: 1, AcquireTimeout: time.Second}, logger.Nop())
	defer p.Shutdown()

	var buf bytes.Buffer
	if err := Dump(&buf, p, time.Now()); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		t.Fatalf("Dump output missing gzip magic bytes, got %x", data[:2])
	}
}
