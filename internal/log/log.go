// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log supports structured and unstructured logging with levels.
package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Severity is the importance of a log entry.
type Severity int

const (
	SeverityDefault Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "Debug"
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityCritical:
		return "Critical"
	default:
		return "Default"
	}
}

// Logger is the interface a logging backend implements.
type Logger interface {
	Log(ctx context.Context, s Severity, payload any)
	Flush()
}

var (
	mu     sync.Mutex
	logger Logger = stdlibLogger{}

	// currentLevel holds current log level.
	// No logs will be printed below currentLevel.
	currentLevel = SeverityDefault
)

// set sets the backend used by the package-level functions.
func set(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

type labelsKey struct{}

// NewContextWithLabel creates a new context from ctx that adds a label that will
// appear in the log entry.
func NewContextWithLabel(ctx context.Context, key, value string) context.Context {
	oldLabels, _ := ctx.Value(labelsKey{}).(map[string]string)
	// Copy the labels, to preserve immutability of contexts.
	newLabels := map[string]string{}
	for k, v := range oldLabels {
		newLabels[k] = v
	}
	newLabels[key] = value
	return context.WithValue(ctx, labelsKey{}, newLabels)
}

func labels(ctx context.Context) map[string]string {
	l, _ := ctx.Value(labelsKey{}).(map[string]string)
	return l
}

// stdlibLogger uses the Go standard library logger.
type stdlibLogger struct{}

func (stdlibLogger) Log(ctx context.Context, s Severity, payload any) {
	var extras []string
	for k, v := range labels(ctx) {
		extras = append(extras, fmt.Sprintf("%s=%s", k, v))
	}
	var extra string
	if len(extras) > 0 {
		extra = " (" + strings.Join(extras, ", ") + ")"
	}
	log.Printf("%s%s: %+v", s, extra, payload)
}

func (stdlibLogger) Flush() {}

// jsonLogger writes one JSON object per entry.
type jsonLogger struct {
	zl zerolog.Logger
}

var zerologLevels = map[Severity]zerolog.Level{
	SeverityDefault:  zerolog.NoLevel,
	SeverityDebug:    zerolog.DebugLevel,
	SeverityInfo:     zerolog.InfoLevel,
	SeverityWarning:  zerolog.WarnLevel,
	SeverityError:    zerolog.ErrorLevel,
	SeverityCritical: zerolog.FatalLevel,
}

func (l *jsonLogger) Log(ctx context.Context, s Severity, payload any) {
	// WithLevel does not exit on FatalLevel; die handles that.
	ev := l.zl.WithLevel(zerologLevels[s])
	for k, v := range labels(ctx) {
		ev = ev.Str(k, v)
	}
	switch p := payload.(type) {
	case error:
		ev.Err(p).Send()
	case string:
		ev.Msg(p)
	default:
		ev.Interface("payload", p).Send()
	}
}

func (l *jsonLogger) Flush() {}

// UseJSON switches from the default stdlib logger to a zerolog logger
// writing JSON lines to w.
func UseJSON(w io.Writer) {
	set(&jsonLogger{zl: zerolog.New(w).With().Timestamp().Logger()})
}

// SetLevel sets the minimum severity level to log. The level is a
// case-insensitive name: debug, info, warning, error or fatal. An unknown
// name selects the default level, which prints everything.
func SetLevel(v string) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = toLevel(v)
}

func getLevel() Severity {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

func toLevel(v string) Severity {
	switch strings.ToLower(v) {
	case "debug":
		return SeverityDebug
	case "info":
		return SeverityInfo
	case "warning":
		return SeverityWarning
	case "error":
		return SeverityError
	case "fatal":
		return SeverityCritical
	default:
		return SeverityDefault
	}
}

// Debugf logs a formatted string at the Debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	logf(ctx, SeverityDebug, format, args)
}

// Infof logs a formatted string at the Info level.
func Infof(ctx context.Context, format string, args ...any) {
	logf(ctx, SeverityInfo, format, args)
}

// Warningf logs a formatted string at the Warning level.
func Warningf(ctx context.Context, format string, args ...any) {
	logf(ctx, SeverityWarning, format, args)
}

// Errorf logs a formatted string at the Error level.
func Errorf(ctx context.Context, format string, args ...any) {
	logf(ctx, SeverityError, format, args)
}

func logf(ctx context.Context, s Severity, format string, args []any) {
	doLog(ctx, s, fmt.Sprintf(format, args...))
}

// Exit logs err at the Critical level and exits with code.
func Exit(ctx context.Context, err error, code int) {
	doLog(ctx, SeverityCritical, err)
	die(code)
}

func doLog(ctx context.Context, s Severity, payload any) {
	if getLevel() > s {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Log(ctx, s, payload)
}

func die(code int) {
	mu.Lock()
	logger.Flush()
	mu.Unlock()
	os.Exit(code)
}
