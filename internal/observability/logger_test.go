package observability

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zap.AtomicLevel
	}{
		{"DEBUG", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{" warn ", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"ERROR", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"bogus", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got.Level() != tt.want.Level() {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tt.input, got.Level(), tt.want.Level())
		}
	}
}

func TestNewLoggerBuilds(t *testing.T) {
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Sync()
}
