package flog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
	None
)

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	None:  "NONE",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel accepts debug, info, warn, error and none (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "none", "off":
		return None, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

type Logger struct {
	level atomic.Int32
	out   *log.Logger
}

func New(w io.Writer, level Level) *Logger {
	l := &Logger{out: log.New(w, "", log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

// Discard returns a logger that drops every message.
func Discard() *Logger {
	return New(io.Discard, None)
}

func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }
func (l *Logger) Level() Level         { return Level(l.level.Load()) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.Level() {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(Error, format, args...) }

// Fatalf logs regardless of level and exits with status 1.
func (l *Logger) Fatalf(format string, args ...any) {
	l.out.Printf("[FATAL] %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

var std = New(os.Stderr, Info)

// Default returns the process-wide logger used by the command layer.
func Default() *Logger { return std }

func SetLevel(level Level) { std.SetLevel(level) }

func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }
