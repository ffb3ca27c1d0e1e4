package notification

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestServiceFansOut(t *testing.T) {
	var out, logs bytes.Buffer
	s := NewService(zerolog.New(&logs), &out)

	s.AuthRequired(context.Background(), "You must log in first to use My List.")
	s.Error(context.Background(), "Could not update My List.")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("console lines = %d, want 2: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "! You must log in first to use My List.") {
		t.Errorf("auth line = %q", lines[0])
	}
	if lines[1] != "! Could not update My List." {
		t.Errorf("error line = %q", lines[1])
	}

	if !strings.Contains(logs.String(), `"type":"auth"`) || !strings.Contains(logs.String(), `"level":"error"`) {
		t.Errorf("logs = %s", logs.String())
	}
}

func TestServiceWithoutConsole(t *testing.T) {
	var logs bytes.Buffer
	s := NewService(zerolog.New(&logs), nil)
	s.Error(context.Background(), "Could not update My List.")

	if !strings.Contains(logs.String(), "Could not update My List.") {
		t.Errorf("logs = %s", logs.String())
	}
}
