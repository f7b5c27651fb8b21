// Package resp implements the RESP v2 reply value tree and the wire errors
// that accompany it.
package resp

import "fmt"

// Kind tags the variant held by a Reply.
type Kind uint8

const (
	// SimpleString is a short status string, e.g. "+OK\r\n".
	SimpleString Kind = iota
	// Error is a server-reported application error, a value, not a fault.
	Error
	// Integer is a signed 64-bit integer reply.
	Integer
	// BulkString is a length-prefixed byte payload, or the null bulk.
	BulkString
	// Array is an ordered list of replies, or the null array.
	Array
)

func (k Kind) String() string {
	switch k {
	case SimpleString:
		return "SimpleString"
	case Error:
		return "Error"
	case Integer:
		return "Integer"
	case BulkString:
		return "BulkString"
	case Array:
		return "Array"
	default:
		return "Unknown"
	}
}

// Reply is the recursively typed value tree produced by the parser. Exactly
// one of the payload fields is meaningful, selected by Kind. A nil bulk or
// nil array is distinct from an empty one: check Null.
type Reply struct {
	Kind Kind

	// Str holds the payload for SimpleString and Error.
	Str []byte

	// Int holds the payload for Integer.
	Int int64

	// Bulk holds the payload for BulkString. Meaningless when Null is true.
	Bulk []byte

	// Elems holds the payload for Array. Meaningless when Null is true.
	Elems []Reply

	// Null distinguishes the null bulk/array from an empty one. Only
	// meaningful when Kind is BulkString or Array.
	Null bool
}

// NewSimpleString builds a SimpleString reply.
func NewSimpleString(s []byte) Reply {
	return Reply{Kind: SimpleString, Str: s}
}

// NewError builds an Error (value) reply.
func NewError(s []byte) Reply {
	return Reply{Kind: Error, Str: s}
}

// NewInteger builds an Integer reply.
func NewInteger(i int64) Reply {
	return Reply{Kind: Integer, Int: i}
}

// NewBulkString builds a non-null BulkString reply. A nil or empty b both
// produce a non-null, zero-length bulk; use NewNullBulk for the null bulk.
func NewBulkString(b []byte) Reply {
	if b == nil {
		b = []byte{}
	}
	return Reply{Kind: BulkString, Bulk: b}
}

// NewNullBulk builds the null bulk reply ("$-1\r\n").
func NewNullBulk() Reply {
	return Reply{Kind: BulkString, Null: true}
}

// NewArray builds a non-null Array reply.
func NewArray(elems []Reply) Reply {
	if elems == nil {
		elems = []Reply{}
	}
	return Reply{Kind: Array, Elems: elems}
}

// NewNullArray builds the null array reply ("*-1\r\n").
func NewNullArray() Reply {
	return Reply{Kind: Array, Null: true}
}

// IsError reports whether the reply is a server-returned error value.
func (r Reply) IsError() bool {
	return r.Kind == Error
}

// IsNull reports whether the reply is a null bulk or null array.
func (r Reply) IsNull() bool {
	return (r.Kind == BulkString || r.Kind == Array) && r.Null
}

// AsError converts an Error-kind reply into a *ServerError, for callers that
// want to treat a server error as a Go error. Returns nil for any other kind.
func (r Reply) AsError() error {
	if r.Kind != Error {
		return nil
	}
	return &ServerError{Message: string(r.Str)}
}

// ServerError wraps a RESP '-' error line. It is a reply value, not a
// transport fault; wrappers that want fault semantics (e.g. an AUTH variant
// that panics/returns on bad credentials) convert it explicitly via
// Reply.AsError.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("redisconn: server error: %s", e.Message)
}

// Prefix returns the leading word of the error message, conventionally the
// error kind Redis itself assigns (e.g. "ERR", "WRONGTYPE", "MOVED").
func (e *ServerError) Prefix() string {
	for i, r := range e.Message {
		if r == ' ' {
			return e.Message[:i]
		}
	}
	return e.Message
}
