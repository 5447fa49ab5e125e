// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"io"
	"strings"
)

// Level represents a logging severity threshold.
type Level int

// Supported logging levels, ordered by severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel converts a level name (e.g., "DEBUG", "info") into a [Level].
// Unknown names fall back to [LevelInfo].
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// LeveledLogger wraps a [Logger] and suppresses debug output below its threshold.
//
// Printf and Println log at info level; Debugf logs at debug level and is
// dropped unless the threshold is [LevelDebug].
type LeveledLogger struct {
	inner Logger
	level Level
}

// NewLeveledLogger wraps inner with a severity threshold.
func NewLeveledLogger(inner Logger, level Level) *LeveledLogger {
	return &LeveledLogger{inner: inner, level: level}
}

// Printf formats and prints a log message at info level.
func (l *LeveledLogger) Printf(format string, v ...any) {
	if l.level > LevelInfo {
		return
	}
	l.inner.Printf(format, v...)
}

// Println prints a log message at info level.
func (l *LeveledLogger) Println(v ...any) {
	if l.level > LevelInfo {
		return
	}
	l.inner.Println(v...)
}

// Debugf formats and prints a log message at debug level.
func (l *LeveledLogger) Debugf(format string, v ...any) {
	if l.level > LevelDebug {
		return
	}
	l.inner.Printf(format, v...)
}

// SetOutput sets the output destination for the underlying logger.
func (l *LeveledLogger) SetOutput(w io.Writer) { l.inner.SetOutput(w) }
