package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleMuteKeepsFileSink(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "cardform.log")
	l, err := New(&console, Options{Level: "debug", File: path, Prefix: "cardform"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("visible", "board_id", "b1")
	l.SetConsoleEnabled(false)
	l.Error("hidden from console", "request_id", "r1")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !strings.Contains(console.String(), "visible") {
		t.Fatalf("expected console output, got %q", console.String())
	}
	if strings.Contains(console.String(), "hidden from console") {
		t.Fatalf("muted console still received output: %q", console.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(b), "request_id=r1") {
		t.Fatalf("expected logfmt file output, got %q", b)
	}
	if l.FilePath() != path {
		t.Fatalf("unexpected file path %q", l.FilePath())
	}
}

func TestLevelFilters(t *testing.T) {
	var console bytes.Buffer
	l, err := New(&console, Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("quiet")
	l.Warn("loud")
	if strings.Contains(console.String(), "quiet") || !strings.Contains(console.String(), "loud") {
		t.Fatalf("unexpected output %q", console.String())
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(nil, Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("nothing")
	l.SetConsoleEnabled(false)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
