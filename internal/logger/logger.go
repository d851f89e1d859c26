// Package logger provides leveled console logging for booksynth.
//
// Debug, Section and Info lines are printed only in verbose mode (--verbose).
// Warnings are printed unless quiet mode is set, so generation shortfalls
// reach the user by default. All output goes to stderr, keeping stdout free
// for instance text and CSV.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	quiet   bool
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

// SetQuiet suppresses warnings. Verbose mode overrides it.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput sets the output writer for log lines.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Reset restores the default state.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	verbose = false
	quiet = false
	output = os.Stderr
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	logf(false, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] "+format+"\n", args...)
}

// Warn prints a warning unless quiet mode is enabled.
func Warn(format string, args ...any) {
	logf(true, "[WARN] "+format+"\n", args...)
}

// logf holds the write lock so concurrent batch workers never interleave lines.
func logf(warning bool, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose || (warning && !quiet) {
		fmt.Fprintf(output, format, args...)
	}
}
