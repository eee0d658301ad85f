// Package log wraps zerolog with the two modes this tool needs: pretty
// console output for interactive training runs, and plain JSON for piped/
// logged runs. Modeled on the logger package used elsewhere in this
// family of tools.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Mode selects the console formatter.
type Mode string

const (
	ModePretty   Mode = "pretty"
	ModeJSON     Mode = "json"
	ModeDisabled Mode = "disabled"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(io.Discard)
)

// Init configures the package logger. Safe to call more than once; the
// most recent call wins.
func Init(mode Mode) {
	mu.Lock()
	defer mu.Unlock()

	switch mode {
	case ModeDisabled, "":
		zerolog.SetGlobalLevel(zerolog.Disabled)
		log = zerolog.New(io.Discard)
		return
	case ModeJSON:
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	default: // pretty
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
		log = zerolog.New(out).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Get returns the current package logger. Before Init is called this is a
// discarding, nil-safe logger, so library code can log unconditionally
// without forcing callers to configure logging first.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Component returns a child logger tagged with a component name, used by
// the forest trainer and the Gibbs sampler to scope their progress logs.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}
