// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging holds the process-wide logger. Everything logs through the
// helpers below so the destination can be swapped once (stderr for the CLI,
// a file while the TUI owns the terminal).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below for compatibility with existing calls.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "trustdesk"})

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
// Unknown names fall back to info.
func SetLevel(name string) {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		lvl = clog.InfoLevel
	}
	L.SetLevel(lvl)
}

// SetOutput redirects the logger.
func SetOutput(w io.Writer) {
	L.SetOutput(w)
}

// ToFile redirects the logger to path (appending) and returns a closer.
// The TUI uses this so log lines never land on the alt screen.
func ToFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", path, err)
	}
	L.SetOutput(f)
	return f, nil
}

// Writer returns an io.Writer that logs each line at debug level. It is
// handed to libraries that want a plain writer (HTTP access logs).
func Writer() io.Writer {
	return L.StandardLog(clog.StandardLogOptions{ForceLevel: clog.DebugLevel}).Writer()
}
