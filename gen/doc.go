// Package gen drives a generation run: it renders every template of a source
// tree, and the tree's file paths, against one values snapshot.
//
// Each file is rendered independently, with at most [WithConcurrency] files
// in flight. A failure in one file never prevents the others from rendering;
// all failures are collected into a [*BatchError] returned together with the
// [Result] holding every file that did render.
//
// # Output paths
//
// A source file's relative path is itself a template and is rendered with
// the same engine as its content, so "src/${{ values.name }}/main.py" is a
// valid source path. The rendered path is cleaned with [path.Clean]. A path
// that renders empty, is absolute, or escapes the output root fails with
// [ErrInvalidOutputPath]. When two sources render to the same output path the
// later one, in source order, fails with [ErrPathCollision].
//
// # Empty output
//
// A template whose rendered content is empty is written as an empty file
// ([EmptyEmit], the default). With [WithEmpty]([EmptySkip]) it is left out of
// [Result.Files] and listed in [Result.Skipped] instead. The policy applies to
// content only; an empty rendered path is always an error.
package gen
