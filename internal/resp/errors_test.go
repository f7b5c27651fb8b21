package resp

import (
	"errors"
	"fmt"
	"testing"
)

func TestFaultErrorMessage(t *testing.T) {
	f := NewProtocolError("unexpected type byte")
	want := "redisconn: ProtocolError: unexpected type byte"
	if f.Error() != want {
		t.Fatalf("Error() = %q, want %q", f.Error(), want)
	}

	cause := errors.New("connection reset")
	wrapped := NewIOError("read failed", cause)
	want = "redisconn: IoError: read failed: connection reset"
	if wrapped.Error() != want {
		t.Fatalf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestFaultUnwrap(t *testing.T) {
	cause := errors.New("boom")
	f := NewConnectError("dial failed", cause)
	if errors.Unwrap(f) != cause {
		t.Fatalf("Unwrap() did not return the wrapped cause")
	}
	if !errors.Is(f, cause) {
		t.Fatalf("errors.Is should find the wrapped cause")
	}
}

func TestIsFaultKindThroughWrapping(t *testing.T) {
	f := NewTimeout("read timed out")
	wrapped := fmt.Errorf("running command: %w", f)
	if !IsFaultKind(wrapped, KindTimeout) {
		t.Fatalf("IsFaultKind should see through fmt.Errorf wrapping")
	}
	if IsFaultKind(wrapped, KindEOF) {
		t.Fatalf("IsFaultKind should not match the wrong kind")
	}
}

func TestIsFaultKindNoMatch(t *testing.T) {
	if IsFaultKind(errors.New("plain error"), KindIO) {
		t.Fatalf("IsFaultKind should return false for a non-Fault error")
	}
	if IsFaultKind(nil, KindIO) {
		t.Fatalf("IsFaultKind(nil, ...) should return false")
	}
}

func TestFaultKindStringAndPoisons(t *testing.T) {
	kinds := []FaultKind{KindConnect, KindIO, KindTimeout, KindEOF, KindProtocol, KindPoolTimeout}
	for _, k := range kinds {
		if k.String() == "UnknownFault" {
			t.Errorf("FaultKind %d stringified as UnknownFault", k)
		}
		if !k.Poisons() {
			t.Errorf("FaultKind %v should poison", k)
		}
	}
}

func TestErrorsAsFault(t *testing.T) {
	f := NewEOF("stream closed mid-frame")
	wrapped := fmt.Errorf("parse reply: %w", f)

	var target *Fault
	if !errors.As(wrapped, &target) {
		t.Fatalf("errors.As should unwrap to *Fault")
	}
	if target.Kind != KindEOF {
		t.Fatalf("unwrapped Fault.Kind = %v, want KindEOF", target.Kind)
	}
}
