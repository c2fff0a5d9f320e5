// Package cli contains the command line interface for skel.
//
// # Usage
//
//	skel [--log-*] [--pprof-*] <command>
//
//	skel render TEMPLATE-DIR -o OUT [-f values.yaml ...] [--set a.b=c ...]
//	skel check  TEMPLATE-DIR [-f values.yaml ...] [--set a.b=c ...]
//	skel inspect FILE [--tokens]
//
// # Configuration
//
// Flag defaults may be overridden by the YAML file config.yaml in the skel
// configuration directory ($XDG_CONFIG_HOME/skel on Linux). Keys mirror
// flag names with hyphens or underscores, nested mappings are joined with
// hyphens, and a mapping named after a command applies only to it:
//
//	log:
//	  level: debug
//	  pretty: false
//	render:
//	  jobs: 4
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// Logging flags are applied before any other parsing, wherever they appear
// on the command line.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o skel .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: the pprof directory
//     below the skel cache directory)
package cli
