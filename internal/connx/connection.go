// Package connx implements a Connection: one owned stream plus the
// BufferedReader and Parser that turn it into send_command/read_reply,
// with deadline-aware I/O and a fault-driven state machine.
package connx

import (
	"errors"
	"net"
	"strconv"
	"time"

	"redisconn/internal/logger"
	"redisconn/internal/parser"
	"redisconn/internal/resp"
	"redisconn/internal/transport"
)

// NoTimeout disables the read/write deadline on a Connection.
const NoTimeout time.Duration = -1

type state int32

const (
	stateOpen state = iota
	stateClosed
	statePoisoned
)

// ErrNotOpen is returned by SendCommand/ReadReply when the connection is
// closed or poisoned.
var ErrNotOpen = errors.New("redisconn: connection not open")

// Connection owns a stream, its BufferedReader, and a current deadline. It
// follows the state machine Open → (Closed | Poisoned): any fault from a
// read or write transitions it to Poisoned, and a poisoned connection must
// never be reused; the pool discards it on checkin.
//
// A Connection is not safe for concurrent use by multiple goroutines; the
// pool enforces single-owner access via checkout.
type Connection struct {
	conn    net.Conn
	br      *transport.BufferedReader
	timeout time.Duration
	state   state
	log     *logger.Logger
}

// ConnectTCP establishes a TCP connection with TCP_NODELAY enabled,
// honoring connectTimeout (NoTimeout for none). readTimeout becomes the
// connection's initial read/write deadline (NoTimeout for none).
func ConnectTCP(host string, port int, connectTimeout, readTimeout time.Duration, log *logger.Logger) (*Connection, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{}
	if connectTimeout != NoTimeout {
		d.Timeout = connectTimeout
	}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, resp.NewConnectError("tcp dial "+addr, err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, resp.NewConnectError("set TCP_NODELAY", err)
		}
	}
	return newConnection(conn, readTimeout, log), nil
}

// ConnectLocal connects to a Unix domain socket by filesystem path. No
// socket options are applied.
func ConnectLocal(path string, readTimeout time.Duration, log *logger.Logger) (*Connection, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, resp.NewConnectError("unix dial "+path, err)
	}
	return newConnection(conn, readTimeout, log), nil
}

func newConnection(conn net.Conn, timeout time.Duration, log *logger.Logger) *Connection {
	if log == nil {
		log = logger.Nop()
	}
	return &Connection{
		conn:    conn,
		br:      transport.NewBufferedReader(conn),
		timeout: timeout,
		state:   stateOpen,
		log:     log,
	}
}

// SetTimeout updates the deadline applied to subsequent sends and reads.
func (c *Connection) SetTimeout(d time.Duration) { c.timeout = d }

func (c *Connection) deadline() time.Time {
	if c.timeout == NoTimeout {
		return time.Time{}
	}
	return time.Now().Add(c.timeout)
}

// SendCommand serializes cmd and writes it to the stream. The write path is
// unbuffered: BufferedReader only covers reads, which need framing to
// recover from partial delivery; a write either completes or the connection
// is poisoned.
func (c *Connection) SendCommand(cmd [][]byte) (int, error) {
	if c.state != stateOpen {
		return 0, ErrNotOpen
	}
	frame := resp.BuildCommand(cmd)
	if err := c.conn.SetWriteDeadline(c.deadline()); err != nil {
		c.poison("set write deadline: " + err.Error())
		return 0, resp.NewIOError("set write deadline", err)
	}
	n, err := c.conn.Write(frame)
	if err != nil {
		c.poison("write failed: " + err.Error())
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, resp.NewTimeout("write timed out")
		}
		return n, resp.NewIOError("write failed", err)
	}
	return n, nil
}

// ReadReply parses exactly one reply frame using the current deadline,
// including Error-kind replies, which are values, not faults, and leave
// the connection healthy. Any other failure (Timeout, Eof, ProtocolError,
// IoError) poisons the connection.
func (c *Connection) ReadReply() (resp.Reply, error) {
	if c.state != stateOpen {
		return resp.Reply{}, ErrNotOpen
	}
	reply, err := parser.Parse(c.br, c.deadline())
	if err != nil {
		c.poison("read failed: " + err.Error())
		return resp.Reply{}, err
	}
	return reply, nil
}

// RunCommand composes SendCommand and ReadReply, the single entry point
// every command wrapper calls.
func (c *Connection) RunCommand(cmd [][]byte) (resp.Reply, error) {
	if _, err := c.SendCommand(cmd); err != nil {
		return resp.Reply{}, err
	}
	return c.ReadReply()
}

// Close closes the stream. Idempotent; transitions to Closed.
func (c *Connection) Close() error {
	if c.state == stateClosed {
		return nil
	}
	c.state = stateClosed
	return c.conn.Close()
}

// IsConnected reports whether the connection is open and has not been
// poisoned or closed.
func (c *Connection) IsConnected() bool { return c.state == stateOpen }

// IsPoisoned reports whether a fault has made this connection unusable.
func (c *Connection) IsPoisoned() bool { return c.state == statePoisoned }

// HighWaterMark exposes the BufferedReader's largest-ever buffer capacity,
// for pool diagnostics.
func (c *Connection) HighWaterMark() int { return c.br.HighWaterMark() }

func (c *Connection) poison(reason string) {
	if c.state != stateOpen {
		return
	}
	c.state = statePoisoned
	c.log.Warnf("connection poisoned: %s", reason)
	_ = c.conn.Close()
}
