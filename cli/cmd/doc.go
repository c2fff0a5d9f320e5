// Package cmd implements the skel subcommands: render, check, and inspect.
package cmd

var (
	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// JobsIdentifier is the kong variable identifier containing the default
	// number of files rendered at once.
	JobsIdentifier = "jobs"
)
