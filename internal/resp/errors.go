package resp

import "fmt"

// FaultKind tags the non-value error kinds a connection can raise. Every
// kind except ServerError poisons the connection that raised it; ServerError
// is not a FaultKind at all; it is carried as a Reply (see AsError).
type FaultKind uint8

const (
	// KindConnect: TCP/local connect failed or timed out.
	KindConnect FaultKind = iota
	// KindIO: a read or write on the underlying stream failed.
	KindIO
	// KindTimeout: a deadline expired mid-read or mid-connect.
	KindTimeout
	// KindEOF: the stream closed while a frame was being read.
	KindEOF
	// KindProtocol: a malformed frame, bad length, unknown type byte, or
	// depth-limit violation.
	KindProtocol
	// KindPoolTimeout: pool checkout exceeded the acquisition timeout.
	KindPoolTimeout
)

func (k FaultKind) String() string {
	switch k {
	case KindConnect:
		return "ConnectError"
	case KindIO:
		return "IoError"
	case KindTimeout:
		return "Timeout"
	case KindEOF:
		return "Eof"
	case KindProtocol:
		return "ProtocolError"
	case KindPoolTimeout:
		return "PoolTimeout"
	default:
		return "UnknownFault"
	}
}

// Fault is the single error type carrying every non-value failure kind.
// Callers distinguish kinds with errors.As and (*Fault).Kind, or with the
// Is* helpers below.
type Fault struct {
	Kind FaultKind
	Msg  string
	Err  error // underlying cause, if any
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("redisconn: %s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("redisconn: %s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

func newFault(kind FaultKind, msg string, cause error) *Fault {
	return &Fault{Kind: kind, Msg: msg, Err: cause}
}

// NewConnectError builds a ConnectError fault.
func NewConnectError(msg string, cause error) *Fault { return newFault(KindConnect, msg, cause) }

// NewIOError builds an IoError fault.
func NewIOError(msg string, cause error) *Fault { return newFault(KindIO, msg, cause) }

// NewTimeout builds a Timeout fault.
func NewTimeout(msg string) *Fault { return newFault(KindTimeout, msg, nil) }

// NewEOF builds an Eof fault.
func NewEOF(msg string) *Fault { return newFault(KindEOF, msg, nil) }

// NewProtocolError builds a ProtocolError fault.
func NewProtocolError(msg string) *Fault { return newFault(KindProtocol, msg, nil) }

// NewPoolTimeout builds a PoolTimeout fault.
func NewPoolTimeout(msg string) *Fault { return newFault(KindPoolTimeout, msg, nil) }

// IsFaultKind reports whether err is a *Fault of the given kind, walking the
// Unwrap chain.
func IsFaultKind(err error, kind FaultKind) bool {
	for err != nil {
		if f, ok := err.(*Fault); ok {
			return f.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Poisons reports whether a fault of this kind poisons the connection that
// raised it. Every FaultKind does; the helper exists so callers don't have
// to special-case: a connection becomes unusable on any fault path.
func (k FaultKind) Poisons() bool { return true }
