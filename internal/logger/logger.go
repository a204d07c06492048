// Package logger provides verbose progress logging for bmap.
// Messages are only written when verbose mode is enabled via --verbose, so
// locate output on stdout stays clean for piping.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level tags a log line.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+string(level)+"] "+format+"\n", args...)
	}
}

// Debug logs pipeline detail such as per-map counts.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs a completed user-visible step.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs a recoverable problem, e.g. a map that failed within a run.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section prints a stage header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs the start of a stage and returns a func that logs its duration.
//
//	done := logger.Timed("load hits")
//	defer done()
func Timed(stage string) func() {
	start := time.Now()
	Debug("%s: started", stage)
	return func() {
		Debug("%s: done in %s", stage, time.Since(start).Round(time.Millisecond))
	}
}
