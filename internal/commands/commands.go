// Package commands is a thin sample of a command-wrapper catalogue: each
// wrapper builds a byte-string command, calls RunCommand, and returns the
// Reply unchanged, except a "must" variant, which converts a server Error
// value into a raised Go error. This is deliberately not a full catalogue;
// it demonstrates that the RunCommand contract is sufficient to build thin,
// hand-written wrappers on without any dynamic dispatch.
package commands

import (
	"strconv"

	"redisconn/internal/resp"
)

// Runner is satisfied by *connx.Connection; wrappers depend on this narrow
// interface rather than the concrete type so they can be tested against a
// fake.
type Runner interface {
	RunCommand(cmd [][]byte) (resp.Reply, error)
}

func bytesCmd(parts ...string) [][]byte {
	cmd := make([][]byte, len(parts))
	for i, p := range parts {
		cmd[i] = []byte(p)
	}
	return cmd
}

// Ping sends PING.
func Ping(r Runner) (resp.Reply, error) {
	return r.RunCommand(bytesCmd("PING"))
}

// Get sends GET key.
func Get(r Runner, key string) (resp.Reply, error) {
	return r.RunCommand(bytesCmd("GET", key))
}

// Set sends SET key value.
func Set(r Runner, key, value string) (resp.Reply, error) {
	return r.RunCommand(bytesCmd("SET", key, value))
}

// Del sends DEL key [key ...].
func Del(r Runner, keys ...string) (resp.Reply, error) {
	return r.RunCommand(bytesCmd(append([]string{"DEL"}, keys...)...))
}

// Exists sends EXISTS key [key ...].
func Exists(r Runner, keys ...string) (resp.Reply, error) {
	return r.RunCommand(bytesCmd(append([]string{"EXISTS"}, keys...)...))
}

// Expire sends EXPIRE key seconds, rendering the numeric argument as
// base-10 ASCII.
func Expire(r Runner, key string, seconds int64) (resp.Reply, error) {
	return r.RunCommand(bytesCmd("EXPIRE", key, strconv.FormatInt(seconds, 10)))
}

// Auth sends AUTH password and returns the Reply unchanged, including a
// server Error value; it does not raise on a bad password.
func Auth(r Runner, password string) (resp.Reply, error) {
	return r.RunCommand(bytesCmd("AUTH", password))
}

// MustAuth converts an Error reply into a raised Go error instead of
// returning it as a value.
func MustAuth(r Runner, password string) error {
	reply, err := Auth(r, password)
	if err != nil {
		return err
	}
	if reply.IsError() {
		return reply.AsError()
	}
	return nil
}
