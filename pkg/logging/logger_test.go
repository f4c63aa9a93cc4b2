package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComponentTagging(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, zapcore.DebugLevel)
	l.ComponentInfo(ComponentAuth, "session issued", zap.String("address", "0xabc"))

	out := buf.String()
	if !strings.Contains(out, "[AUTH] session issued") {
		t.Fatalf("missing component tag: %q", out)
	}
	if !strings.Contains(out, "0xabc") {
		t.Fatalf("missing field: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("colors should be disabled: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, zapcore.WarnLevel)
	l.ComponentDebug(ComponentFeed, "hidden")
	l.ComponentInfo(ComponentFeed, "hidden too")
	l.ComponentWarn(ComponentFeed, "visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug/info lines leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}
