package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"Warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}

	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestZapLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: DebugLevel, Output: &buf})
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Info("webhook received", String("content_hash", "abc123"), Int("body_len", 42))

	out := buf.String()
	if !strings.Contains(out, "webhook received") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("expected field value in output, got %q", out)
	}
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: WarnLevel, Output: &buf})
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Debug("should be dropped")
	logger.Info("should be dropped too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("low-severity messages leaked through: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestZapLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: DebugLevel, Output: &buf})
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Error("persist failed", errors.New("disk full"))

	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected wrapped error in output, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(LogConfig{Level: DebugLevel, Output: &buf})
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	child := logger.WithFields(String("component", "pipeline"))
	child.Info("state change")

	if !strings.Contains(buf.String(), "pipeline") {
		t.Errorf("expected bound field in output, got %q", buf.String())
	}
}
