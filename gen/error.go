package gen

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/skel/pkg"
)

// Sentinel errors for generation failures.
var (
	// ErrRender wraps a template error raised while rendering a file's path or
	// content.
	ErrRender = pkg.MakeErrorf("render failed")
	// ErrInvalidOutputPath is returned when a rendered output path is empty,
	// absolute, or escapes the output root.
	ErrInvalidOutputPath = pkg.MakeErrorf("invalid output path")
	// ErrPathCollision is returned when two sources render to one output path.
	ErrPathCollision = pkg.MakeErrorf("output path collision")
	// ErrWrite is returned when persisting a rendered file fails.
	ErrWrite = pkg.MakeErrorf("write failed")
)

// FileError reports the failure of a single source file.
type FileError struct {
	Source string // source path
	Output string // rendered output path, if rendering got that far
	Err    error
}

func (e *FileError) Error() string { return e.Source + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *FileError) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("source", e.Source)}
	if e.Output != "" {
		attrs = append(attrs, slog.String("output", e.Output))
	}

	return slog.GroupValue(append(attrs, slog.Any("error", e.Err))...)
}

// BatchError aggregates the failures of a generation run, in source order.
type BatchError struct {
	Errors []*FileError
	Total  int // number of source files in the run
}

func (e *BatchError) Error() string {
	var sb strings.Builder

	sb.WriteString(strconv.Itoa(len(e.Errors)))
	sb.WriteString(" of ")
	sb.WriteString(strconv.Itoa(e.Total))
	sb.WriteString(" files failed")

	for _, fe := range e.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(fe.Error())
	}

	return sb.String()
}

// Unwrap returns every file error, so errors.Is and errors.As see each one.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}

	return errs
}

// LogValue implements slog.LogValuer.
func (e *BatchError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Errors)+2)
	attrs = append(attrs,
		slog.Int("failed", len(e.Errors)),
		slog.Int("total", e.Total))

	for i, fe := range e.Errors {
		attrs = append(attrs, slog.Any(strconv.Itoa(i), fe))
	}

	return slog.GroupValue(attrs...)
}
