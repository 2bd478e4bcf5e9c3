package b64stream

import (
	"fmt"
	"strings"
)

// kind is an error category. Its message is used bare inside an
// *Error, which adds the package prefix itself.
type kind struct {
	msg string
}

func (k *kind) Error() string {
	return "b64stream: " + k.msg
}

// Error kinds. Use errors.Is to test for them.
var (
	// ErrNilArgument indicates a missing source or destination.
	ErrNilArgument error = &kind{"nil argument"}

	// ErrUnsupported indicates a source or destination lacking a
	// required capability.
	ErrUnsupported error = &kind{"unsupported source or destination"}

	// ErrOutOfRange indicates an invalid content length or block
	// size.
	ErrOutOfRange error = &kind{"argument out of range"}

	// ErrFormat indicates malformed or misaligned base64 input.
	ErrFormat error = &kind{"invalid base64"}

	// ErrIO indicates a failed read, write or flush.
	ErrIO error = &kind{"i/o error"}

	// ErrOutOfMemory indicates that the output would not fit in
	// a single buffer.
	ErrOutOfMemory error = &kind{"output too large"}
)

// Error is the error type returned by every operation in this
// package.
//
// It matches both its Kind and its cause with errors.Is, so a
// failed write reports errors.Is(err, ErrIO) as well as whatever
// the writer returned.
type Error struct {
	Op   string // "encode" or "decode"
	Kind error  // one of the Err* kinds
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("b64stream: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	if k, ok := e.Kind.(*kind); ok {
		b.WriteString(k.msg)
	} else {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FormatError describes malformed base64 input.
type FormatError struct {
	Offset int64  // characters consumed before the offending block
	Reason string // human-readable explanation
	Err    error  // codec error, may be nil
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func errorf(op string, kind error, format string, args ...any) *Error {
	return newError(op, kind, fmt.Errorf(format, args...))
}
