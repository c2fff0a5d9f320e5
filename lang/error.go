package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by the package are derived from these with [Error.Wrap],
// [Error.With], [Error.WithPosition], or [Error.WithTemplate], and still
// match their sentinel with [errors.Is].
var (
	ErrMalformedDirective  = NewError("malformed directive")
	ErrUnbalancedDirective = NewError("unbalanced directive")
	ErrInvalidExpression   = NewError("invalid expression")
	ErrReadInput           = NewError("failed to read input")
	ErrInvalidNode         = NewError("invalid node")
)

// Position identifies a location in template text.
//
// Offset is a zero-based byte offset. Line and Column are one-based; Column
// counts runes, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with optional template location and structured
// logging attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind     *Error      // Sentinel this error derives from
	msg      string
	err      error       // Wrapped error (for errors.Unwrap)
	attrs    []slog.Attr // Attributes for structured logging
	template string
	pos      Position
	hasPos   bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

func (e *Error) derive() *Error {
	c := *e
	c.kind = e.root()

	return &c
}

// Error implements the error interface.
//
// The message has the form "<template>:<line>:<column>: <msg>: <err>",
// omitting whichever parts are not set.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if loc := e.location(); loc != "" {
		part = append(part, loc)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) location() string {
	switch {
	case e.template != "" && e.hasPos:
		return e.template + ":" + e.pos.String()
	case e.template != "":
		return e.template
	case e.hasPos:
		return e.pos.String()
	default:
		return ""
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+6)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.template != "" {
		attrs = append(attrs, slog.String("template", e.template))
	}

	if e.hasPos {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
			slog.Int("offset", e.pos.Offset),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos, c.hasPos = pos, true

	return c
}

// WithTemplate returns a copy of e naming the template it occurred in.
func (e *Error) WithTemplate(name string) *Error {
	c := e.derive()
	c.template = name

	return c
}

// Position returns the location of the error and whether one was set.
func (e *Error) Position() (Position, bool) { return e.pos, e.hasPos }

// Template returns the name of the template the error occurred in.
func (e *Error) Template() string { return e.template }
