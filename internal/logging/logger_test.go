//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevel(t *testing.T) {
	defer Init(DefaultConfig())

	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			Init(Config{Level: tt.level, Output: &buf})

			Debug().Msg("debug-line")
			Info().Msg("info-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.debugSeen {
				t.Errorf("Expected debug output %v, got %v", tt.debugSeen, got)
			}
			if got := strings.Contains(out, "info-line"); got != tt.infoSeen {
				t.Errorf("Expected info output %v, got %v", tt.infoSeen, got)
			}
		})
	}
}

func TestWithSession(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	l := WithSession("abc-123")
	l.Info().Msg("staged")

	if !strings.Contains(buf.String(), `"session":"abc-123"`) {
		t.Errorf("Expected session field in output, got '%s'", buf.String())
	}
}
