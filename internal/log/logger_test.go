package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevelParsing(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := New(tt.in).GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.in, got, tt.want)
		}
	}
}
