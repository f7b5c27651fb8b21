package connx

import (
	"net"
	"testing"
	"time"

	"redisconn/internal/logger"
)

func pipeConnection(t *testing.T, timeout time.Duration) (*Connection, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })
	return newConnection(client, timeout, logger.Nop()), server
}

func TestRunCommandRoundTrip(t *testing.T) {
	conn, server := pipeConnection(t, NoTimeout)
	go func() {
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		_ = n
		server.Write([]byte("+PONG\r\n"))
	}()

	reply, err := conn.RunCommand([][]byte{[]byte("PING")})
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if string(reply.Str) != "PONG" {
		t.Fatalf("reply = %+v, want PONG", reply)
	}
	if !conn.IsConnected() {
		t.Fatalf("connection should remain open after a healthy round trip")
	}
}

func TestRunCommandServerErrorStaysHealthy(t *testing.T) {
	conn, server := pipeConnection(t, NoTimeout)
	go func() {
		buf := make([]byte, 64)
		server.Read(buf)
		server.Write([]byte("-ERR unknown command\r\n"))
	}()

	reply, err := conn.RunCommand([][]byte{[]byte("BOGUS")})
	if err != nil {
		t.Fatalf("RunCommand should not raise a Go error for a server error reply: %v", err)
	}
	if !reply.IsError() {
		t.Fatalf("expected an Error-kind reply, got %+v", reply)
	}
	if !conn.IsConnected() {
		t.Fatalf("a server Error reply must not poison the connection")
	}
}

func TestReadReplyPoisonsOnProtocolFault(t *testing.T) {
	conn, server := pipeConnection(t, NoTimeout)
	go func() {
		buf := make([]byte, 64)
		server.Read(buf)
		server.Write([]byte("!garbage\r\n"))
	}()

	_, err := conn.RunCommand([][]byte{[]byte("PING")})
	if err == nil {
		t.Fatalf("expected a protocol fault")
	}
	if !conn.IsPoisoned() {
		t.Fatalf("connection should be poisoned after a protocol fault")
	}
	if conn.IsConnected() {
		t.Fatalf("a poisoned connection must not report as connected")
	}
}

func TestReadReplyPoisonsOnEOF(t *testing.T) {
	conn, server := pipeConnection(t, NoTimeout)
	go func() {
		buf := make([]byte, 64)
		server.Read(buf)
		server.Close()
	}()

	_, err := conn.RunCommand([][]byte{[]byte("PING")})
	if err == nil {
		t.Fatalf("expected an error after peer closed mid-frame")
	}
	if !conn.IsPoisoned() {
		t.Fatalf("connection should be poisoned after an EOF fault")
	}
}

func TestOperationsRejectedAfterClose(t *testing.T) {
	conn, _ := pipeConnection(t, NoTimeout)
	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close should be idempotent, got %v", err)
	}
	if _, err := conn.SendCommand([][]byte{[]byte("PING")}); err != ErrNotOpen {
		t.Fatalf("SendCommand after Close = %v, want ErrNotOpen", err)
	}
	if _, err := conn.ReadReply(); err != ErrNotOpen {
		t.Fatalf("ReadReply after Close = %v, want ErrNotOpen", err)
	}
}

func TestSetTimeoutNoTimeoutProducesZeroDeadline(t *testing.T) {
	conn, _ := pipeConnection(t, NoTimeout)
	if d := conn.deadline(); !d.IsZero() {
		t.Fatalf("deadline() with NoTimeout = %v, want zero Time", d)
	}
	conn.SetTimeout(time.Second)
	if d := conn.deadline(); d.IsZero() {
		t.Fatalf("deadline() after SetTimeout should not be zero")
	}
}
