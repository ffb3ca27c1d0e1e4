package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"trace", zerolog.TraceLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConsoleLoggerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	log := newConsoleLogger(&buf)

	log.Info().Str("module", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "module=") {
		t.Errorf("unexpected log output: %q", out)
	}
}
