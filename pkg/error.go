package pkg

// Sentinel errors shared by the skel packages outside the template engine.
// These errors can be tested using errors.Is for reliable error checking.

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrReadInput is returned when reading input fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = MakeErrorf("failed to read input")

// ErrParse is returned when decoding a values or configuration file fails.
//
// This error should be wrapped with the underlying decoder error
// to preserve the error chain and its location information.
var ErrParse = MakeErrorf("parse error")

// ErrInvalidFormat is returned when a file's format cannot be determined
// from its name.
//
// This error should be wrapped with the offending name and the list of
// supported formats.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrUnsupportedValue is returned when a decoded value has a type that cannot
// appear in a values tree.
var ErrUnsupportedValue = MakeErrorf("unsupported value")

// ErrInvalidOverride is returned when a "path=value" override is malformed.
var ErrInvalidOverride = MakeErrorf("invalid override")

// ErrYAMLMarshal is returned when YAML marshaling fails.
//
// This error should be wrapped with the underlying marshaling error
// to preserve the error chain.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the outermost error in the chain, and each
// following one is the cause of the one before it.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, err)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from outermost to innermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap returns a new chain with err appended as the innermost cause.
// The receiver is not modified, so sentinels may be wrapped concurrently.
func (e Error) Wrap(err ...error) Error {
	return append(slices.Clip(slices.Clone(e)), err...)
}

// Wrapf is like [Error.Wrap] with a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is a chain whose errors form a prefix of e, so a
// wrapped sentinel still matches the sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[i] != t[i] {
			return false
		}
	}

	return true
}
