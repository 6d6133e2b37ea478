// Package logger provides structured logging for the connect SDK.
// The SDK is silent by default; hosts opt in with SetVerbose or hand in
// their own writer with SetOutput.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(io.Discard)

	verbose bool
)

// SetVerbose enables or disables logging. When enabled, events are
// written to stderr in console format at debug level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	} else {
		log = zerolog.New(io.Discard)
	}
}

// IsVerbose returns true if logging is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput routes log events to w at debug level. Useful for testing
// and for hosts that collect SDK logs themselves.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	verbose = true
	log = zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Debug starts a debug event.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

// Info starts an info event.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a warning event.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

// Error starts an error event.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}
