package resp

import "testing"

func TestBulkStringNilVsNull(t *testing.T) {
	nilBulk := NewBulkString(nil)
	if nilBulk.IsNull() {
		t.Fatalf("NewBulkString(nil) should not be null")
	}
	if nilBulk.Bulk == nil || len(nilBulk.Bulk) != 0 {
		t.Fatalf("NewBulkString(nil).Bulk = %v, want empty non-nil slice", nilBulk.Bulk)
	}

	null := NewNullBulk()
	if !null.IsNull() {
		t.Fatalf("NewNullBulk() should be null")
	}
}

func TestArrayNilVsNull(t *testing.T) {
	empty := NewArray(nil)
	if empty.IsNull() {
		t.Fatalf("NewArray(nil) should not be null")
	}
	if empty.Elems == nil || len(empty.Elems) != 0 {
		t.Fatalf("NewArray(nil).Elems = %v, want empty non-nil slice", empty.Elems)
	}

	null := NewNullArray()
	if !null.IsNull() {
		t.Fatalf("NewNullArray() should be null")
	}
}

func TestIsError(t *testing.T) {
	ok := NewSimpleString([]byte("OK"))
	if ok.IsError() {
		t.Fatalf("SimpleString reported as error")
	}
	errReply := NewError([]byte("ERR bad thing"))
	if !errReply.IsError() {
		t.Fatalf("Error-kind reply not reported as error")
	}
}

func TestAsError(t *testing.T) {
	ok := NewSimpleString([]byte("OK"))
	if ok.AsError() != nil {
		t.Fatalf("AsError on non-error reply should be nil")
	}
	errReply := NewError([]byte("WRONGTYPE Operation against a key"))
	err := errReply.AsError()
	if err == nil {
		t.Fatalf("AsError on Error-kind reply should not be nil")
	}
	se, isServerErr := err.(*ServerError)
	if !isServerErr {
		t.Fatalf("AsError should return a *ServerError, got %T", err)
	}
	if se.Prefix() != "WRONGTYPE" {
		t.Fatalf("Prefix() = %q, want WRONGTYPE", se.Prefix())
	}
}

func TestServerErrorPrefixNoSpace(t *testing.T) {
	se := &ServerError{Message: "ERR"}
	if se.Prefix() != "ERR" {
		t.Fatalf("Prefix() with no space = %q, want ERR", se.Prefix())
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		SimpleString: "SimpleString",
		Error:        "Error",
		Integer:      "Integer",
		BulkString:   "BulkString",
		Array:        "Array",
		Kind(99):     "Unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
