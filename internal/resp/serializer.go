package resp

import (
	"strconv"
)

// crlf is the two-byte frame terminator used throughout the unified
// request/reply protocol.
const crlf = "\r\n"

// BuildCommand encodes a command (a non-empty ordered sequence of byte
// strings, element 0 conventionally the command name) into the RESP
// unified request frame:
//
//	*<N>\r\n
//	$<len(arg_i)>\r\n<arg_i>\r\n   for i = 0..N-1
//
// Argument bytes pass through verbatim; BuildCommand never interprets,
// escapes, or validates content. It panics if cmd is empty: callers are
// command wrappers under the caller's control, not untrusted input, and an
// empty command is always a programming error.
func BuildCommand(cmd [][]byte) []byte {
	if len(cmd) == 0 {
		panic("resp: BuildCommand requires at least one argument")
	}

	size := 0
	size += 1 + len(strconv.Itoa(len(cmd))) + 2 // "*N\r\n"
	for _, arg := range cmd {
		size += 1 + len(strconv.Itoa(len(arg))) + 2 // "$len\r\n"
		size += len(arg) + 2                        // arg + "\r\n"
	}

	buf := make([]byte, 0, size)
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(cmd)), 10)
	buf = append(buf, crlf...)
	for _, arg := range cmd {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(arg)), 10)
		buf = append(buf, crlf...)
		buf = append(buf, arg...)
		buf = append(buf, crlf...)
	}
	return buf
}

// BuildCommandStrings is a convenience wrapper over BuildCommand for callers
// holding string arguments rather than raw byte slices.
func BuildCommandStrings(cmd []string) []byte {
	b := make([][]byte, len(cmd))
	for i, s := range cmd {
		b[i] = []byte(s)
	}
	return BuildCommand(b)
}
