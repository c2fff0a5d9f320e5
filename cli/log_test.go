package cli

import (
	"testing"

	"github.com/ardnew/skel/log"
)

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name   string
		args   []string
		level  log.Level
		format log.Format
		pretty bool
		caller bool
	}{
		{
			name:   "assigned",
			args:   []string{"render", "--log-level=debug", "--log-format=json"},
			level:  log.LevelDebug,
			format: log.FormatJSON,
		},
		{
			name:   "separate values",
			args:   []string{"--log-level", "trace", "check", "--log-format", "text"},
			level:  log.LevelTrace,
			format: log.FormatText,
		},
		{
			name:   "booleans",
			args:   []string{"--log-pretty", "--log-caller=true", "--log-level=warn"},
			level:  log.LevelWarn,
			pretty: true,
			caller: true,
		},
		{
			name:  "negated",
			args:  []string{"--no-log-pretty", "--no-log-caller", "--log-level=error"},
			level: log.LevelError,
		},
		{
			name:  "stops at terminator",
			args:  []string{"--log-level=info", "--", "--log-level=debug"},
			level: log.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log.SetDefault(log.Make(nil))

			var f logConfig
			f.scan(tt.args)

			if got := log.Default().Level(); got != tt.level {
				t.Errorf("level = %v, want %v", got, tt.level)
			}

			if got := log.Default().Format(); got != tt.format {
				t.Errorf("format = %v, want %v", got, tt.format)
			}

			if f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("pretty, caller = %v, %v; want %v, %v",
					f.Pretty, f.Caller, tt.pretty, tt.caller)
			}
		})
	}
}
