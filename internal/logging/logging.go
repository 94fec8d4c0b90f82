// Package logging fans runtime log events out to a styled console sink and an
// optional logfmt file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	Level  string
	File   string
	Prefix string
}

// Logger writes to every enabled sink.
type Logger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	filePath       string
}

// New builds a logger writing to stderr and, when opts.File is set, to that file.
func New(stderr io.Writer, opts Options) (*Logger, error) {
	levelName := strings.TrimSpace(opts.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", opts.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	console := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Formatter:       charmLog.TextFormatter,
	})
	l := &Logger{
		sinks:          []*charmLog.Logger{console},
		consoleSink:    console,
		consoleEnabled: true,
	}

	path := strings.TrimSpace(opts.File)
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	// File output stays unstyled and parseable.
	fileSink := charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	l.sinks = append(l.sinks, fileSink)
	l.closeFile = f.Close
	l.filePath = path
	return l, nil
}

// FilePath returns the file sink path, if any.
func (l *Logger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// Close closes the file sink.
func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled mutes or unmutes the console sink. The TUI mutes it while the
// alt screen is active.
func (l *Logger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

func (l *Logger) enabled(sink *charmLog.Logger) bool {
	return sink != l.consoleSink || l.consoleEnabled
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		if l.enabled(s) {
			s.Debug(msg, keyvals...)
		}
	}
}

func (l *Logger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		if l.enabled(s) {
			s.Info(msg, keyvals...)
		}
	}
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		if l.enabled(s) {
			s.Warn(msg, keyvals...)
		}
	}
}

func (l *Logger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		if l.enabled(s) {
			s.Error(msg, keyvals...)
		}
	}
}
