package commands

import (
	"testing"

	"redisconn/internal/resp"
)

type fakeRunner struct {
	lastCmd [][]byte
	reply   resp.Reply
	err     error
}

func (f *fakeRunner) RunCommand(cmd [][]byte) (resp.Reply, error) {
	f.lastCmd = cmd
	return f.reply, f.err
}

func cmdStrings(cmd [][]byte) []string {
	out := make([]string, len(cmd))
	for i, b := range cmd {
		out[i] = string(b)
	}
	return out
}

func TestPingSendsNoArguments(t *testing.T) {
	r := &fakeRunner{reply: resp.NewSimpleString([]byte("PONG"))}
	reply, err := Ping(r)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got := cmdStrings(r.lastCmd); len(got) != 1 || got[0] != "PING" {
		t.Fatalf("sent command = %v, want [PING]", got)
	}
	if string(reply.Str) != "PONG" {
		t.Fatalf("reply = %+v, want PONG", reply)
	}
}

func TestGetSendsKey(t *testing.T) {
	r := &fakeRunner{reply: resp.NewBulkString([]byte("value"))}
	if _, err := Get(r, "mykey"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := cmdStrings(r.lastCmd); len(got) != 2 || got[0] != "GET" || got[1] != "mykey" {
		t.Fatalf("sent command = %v, want [GET mykey]", got)
	}
}

func TestExpireRendersSecondsAsDecimal(t *testing.T) {
	r := &fakeRunner{reply: resp.NewInteger(1)}
	if _, err := Expire(r, "k", 120); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	got := cmdStrings(r.lastCmd)
	if len(got) != 3 || got[0] != "EXPIRE" || got[1] != "k" || got[2] != "120" {
		t.Fatalf("sent command = %v, want [EXPIRE k 120]", got)
	}
}

func TestDelJoinsMultipleKeys(t *testing.T) {
	r := &fakeRunner{reply: resp.NewInteger(2)}
	if _, err := Del(r, "a", "b"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	got := cmdStrings(r.lastCmd)
	if len(got) != 3 || got[0] != "DEL" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("sent command = %v, want [DEL a b]", got)
	}
}

func TestAuthReturnsErrorReplyUnconverted(t *testing.T) {
	r := &fakeRunner{reply: resp.NewError([]byte("WRONGPASS invalid username-password pair"))}
	reply, err := Auth(r, "bad-password")
	if err != nil {
		t.Fatalf("Auth should not raise a Go error on a bad password: %v", err)
	}
	if !reply.IsError() {
		t.Fatalf("expected an Error-kind reply, got %+v", reply)
	}
}

func TestMustAuthRaisesOnErrorReply(t *testing.T) {
	r := &fakeRunner{reply: resp.NewError([]byte("WRONGPASS invalid username-password pair"))}
	err := MustAuth(r, "bad-password")
	if err == nil {
		t.Fatalf("MustAuth should raise a Go error on a bad password")
	}
}

func TestMustAuthSucceedsOnOK(t *testing.T) {
	r := &fakeRunner{reply: resp.NewSimpleString([]byte("OK"))}
	if err := MustAuth(r, "good-password"); err != nil {
		t.Fatalf("MustAuth: %v", err)
	}
}
