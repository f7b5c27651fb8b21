// Package parser implements the RESP v2 incremental reply decoder: it
// consumes exactly one reply frame from a transport.BufferedReader and
// produces a resp.Reply, or a *resp.Fault (KindProtocol) on any structural
// violation.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"redisconn/internal/resp"
	"redisconn/internal/transport"
)

// maxDepth bounds nested array recursion so a hostile or buggy peer can't
// exhaust the stack.
const maxDepth = 64

var crlf = []byte("\r\n")

// Parse consumes exactly one reply frame from r, honoring deadline for every
// underlying read. Bytes belonging to subsequent frames are left buffered
// for the next call; Parse never reads past a frame boundary.
func Parse(r *transport.BufferedReader, deadline time.Time) (resp.Reply, error) {
	return parseDepth(r, deadline, 0)
}

func parseDepth(r *transport.BufferedReader, deadline time.Time, depth int) (resp.Reply, error) {
	if depth > maxDepth {
		return resp.Reply{}, resp.NewProtocolError("maximum array nesting depth exceeded")
	}

	typeByte, err := r.ReadExact(1, deadline)
	if err != nil {
		return resp.Reply{}, err
	}

	switch typeByte[0] {
	case '+':
		line, err := readLine(r, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		return resp.NewSimpleString(line), nil

	case '-':
		line, err := readLine(r, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		return resp.NewError(line), nil

	case ':':
		line, err := readLine(r, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		n, err := parseSignedDecimal(line)
		if err != nil {
			return resp.Reply{}, err
		}
		return resp.NewInteger(n), nil

	case '$':
		line, err := readLine(r, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		length, err := parseLength(line)
		if err != nil {
			return resp.Reply{}, err
		}
		if length == -1 {
			return resp.NewNullBulk(), nil
		}
		data, err := r.ReadExact(length, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		term, err := r.ReadExact(2, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		if term[0] != '\r' || term[1] != '\n' {
			return resp.Reply{}, resp.NewProtocolError("bulk string missing CRLF terminator")
		}
		return resp.NewBulkString(data), nil

	case '*':
		line, err := readLine(r, deadline)
		if err != nil {
			return resp.Reply{}, err
		}
		count, err := parseLength(line)
		if err != nil {
			return resp.Reply{}, err
		}
		if count == -1 {
			return resp.NewNullArray(), nil
		}
		elems := make([]resp.Reply, count)
		for i := 0; i < count; i++ {
			elems[i], err = parseDepth(r, deadline, depth+1)
			if err != nil {
				return resp.Reply{}, err
			}
		}
		return resp.NewArray(elems), nil

	default:
		return resp.Reply{}, resp.NewProtocolError(fmt.Sprintf("unknown type byte %q", typeByte[0]))
	}
}

// readLine reads up to and including "\r\n" and strips the terminator.
func readLine(r *transport.BufferedReader, deadline time.Time) ([]byte, error) {
	line, err := r.ReadUntil(crlf, deadline)
	if err != nil {
		return nil, err
	}
	return line[:len(line)-2], nil
}

// parseLength parses a RESP length/count prefix: a parseSignedDecimal value
// that must be either -1 (the null sentinel) or a non-negative count within
// a sane upper bound.
func parseLength(b []byte) (int, error) {
	n, err := parseSignedDecimal(b)
	if err != nil {
		return 0, err
	}
	if n < -1 {
		return 0, resp.NewProtocolError(fmt.Sprintf("negative length %d other than -1", n))
	}
	if n > math.MaxInt32 {
		return 0, resp.NewProtocolError("declared length exceeds maximum frame size")
	}
	return int(n), nil
}

// parseSignedDecimal parses strict RESP decimal integers: optional leading
// '-', at least one digit, digits only, no whitespace, leading zeros
// permitted. Any deviation, including an empty field, is a ProtocolError.
func parseSignedDecimal(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, resp.NewProtocolError("empty numeric field")
	}
	idx := 0
	if b[0] == '-' {
		idx = 1
	}
	if idx >= len(b) {
		return 0, resp.NewProtocolError(fmt.Sprintf("numeric field %q has no digits", b))
	}
	for i := idx; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, resp.NewProtocolError(fmt.Sprintf("invalid numeric field %q", b))
		}
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, resp.NewProtocolError(fmt.Sprintf("numeric field %q out of int64 range", b))
	}
	return v, nil
}
