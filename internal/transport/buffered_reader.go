// Package transport implements the deadline-aware buffered read primitives
// the parser consumes a reply frame through.
package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"

	"redisconn/internal/resp"
)

// DefaultBufferSize is the BufferedReader's initial capacity. It never
// shrinks below this once grown.
const DefaultBufferSize = 1024

// DeadlineReader is the minimal surface BufferedReader needs from a
// transport: a stream Read and a way to bound how long that Read may block.
// *net.TCPConn and *net.UnixConn both satisfy it.
type DeadlineReader interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// BufferedReader is a fixed-capacity (but growable) read buffer over a
// single stream, offering "read exactly N bytes" and "read up to a
// delimiter" with a shared deadline budget. It is not safe for concurrent
// use; callers serialize access the same way they serialize command
// issuance on a Connection.
type BufferedReader struct {
	conn DeadlineReader
	buf  []byte
	r, w int // unread data is buf[r:w]

	highWater int // largest capacity ever reached, for diagnostics only
}

// NewBufferedReader wraps conn with a buffer of DefaultBufferSize.
func NewBufferedReader(conn DeadlineReader) *BufferedReader {
	return &BufferedReader{
		conn:      conn,
		buf:       make([]byte, DefaultBufferSize),
		highWater: DefaultBufferSize,
	}
}

// Buffered reports how many unread bytes currently sit in the buffer.
func (br *BufferedReader) Buffered() int { return br.w - br.r }

// HighWaterMark reports the largest capacity this reader's buffer has ever
// grown to. The buffer never shrinks back down; this is purely
// informational, exposed through Connection.HighWaterMark. It is not part
// of pool.Stats or of the internal/diag snapshots.
func (br *BufferedReader) HighWaterMark() int { return br.highWater }

// ReadExact returns exactly n bytes, refilling from the stream as needed.
// deadline is the absolute instant by which the read must complete; the
// zero Time means no timeout.
func (br *BufferedReader) ReadExact(n int, deadline time.Time) ([]byte, error) {
	if n < 0 {
		panic("transport: ReadExact: negative n")
	}
	for br.w-br.r < n {
		br.compact()
		if n > len(br.buf) {
			br.grow(n)
		} else if br.w == len(br.buf) {
			br.grow(len(br.buf) * 2)
		}
		if err := br.fillOnce(deadline); err != nil {
			return nil, err
		}
	}
	out := make([]byte, n)
	copy(out, br.buf[br.r:br.r+n])
	br.r += n
	return out, nil
}

// ReadUntil returns bytes up to and including the first occurrence of
// delim, growing the buffer if delim isn't found within current contents.
func (br *BufferedReader) ReadUntil(delim []byte, deadline time.Time) ([]byte, error) {
	for {
		if idx := bytes.Index(br.buf[br.r:br.w], delim); idx >= 0 {
			end := br.r + idx + len(delim)
			out := make([]byte, end-br.r)
			copy(out, br.buf[br.r:end])
			br.r = end
			return out, nil
		}
		br.compact()
		if br.w == len(br.buf) {
			br.grow(len(br.buf) * 2)
		}
		if err := br.fillOnce(deadline); err != nil {
			return nil, err
		}
	}
}

// compact shifts unread bytes to the front of buf so capacity is reusable
// without reallocation.
func (br *BufferedReader) compact() {
	if br.r == 0 {
		return
	}
	n := copy(br.buf, br.buf[br.r:br.w])
	br.w = n
	br.r = 0
}

// grow doubles buf's capacity until it can hold at least min bytes.
func (br *BufferedReader) grow(min int) {
	size := len(br.buf)
	if size == 0 {
		size = DefaultBufferSize
	}
	for size < min {
		size *= 2
	}
	next := make([]byte, size)
	copy(next, br.buf[:br.w])
	br.buf = next
	if size > br.highWater {
		br.highWater = size
	}
}

// fillOnce issues exactly one stream read with the remaining deadline
// budget, appending into buf[w:].
func (br *BufferedReader) fillOnce(deadline time.Time) error {
	if !deadline.IsZero() {
		if time.Until(deadline) <= 0 {
			return resp.NewTimeout("deadline exceeded before read")
		}
	}
	if err := br.conn.SetReadDeadline(deadline); err != nil {
		// An in-memory pipe refuses deadlines once either end has closed;
		// that is the stream closing, not an I/O failure.
		if errors.Is(err, io.ErrClosedPipe) {
			return resp.NewEOF("connection closed mid-frame")
		}
		return resp.NewIOError("set read deadline", err)
	}
	n, err := br.conn.Read(br.buf[br.w:])
	br.w += n
	if err != nil {
		var netErr net.Error
		switch {
		case errors.As(err, &netErr) && netErr.Timeout():
			return resp.NewTimeout("read timed out")
		case errors.Is(err, io.EOF):
			return resp.NewEOF("connection closed mid-frame")
		default:
			return resp.NewIOError("stream read failed", err)
		}
	}
	return nil
}
