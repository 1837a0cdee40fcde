package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Log is the package-global logger configured by Init
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init initializes the global logger. Logs go to stderr and, if logFilePath
// is non-empty, to the file as well. level can be "debug", "info", "warn", "error".
func Init(logFilePath, level string) (func(), error) {
	zerolog.SetGlobalLevel(ParseLevel(level))

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}}
	var f *os.File
	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
	}
	Log = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	return func() {
		if f != nil {
			_ = f.Close()
		}
	}, nil
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns a pointer to the package-global logger
func Get() *zerolog.Logger {
	return &Log
}

// Component returns the global logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
