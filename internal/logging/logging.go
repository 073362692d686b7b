// Package logging builds the loggers cue's commands share.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tessro/cue/internal/config"
)

// Rotation settings for the log file.
const (
	MaxSizeMB  = 10
	MaxBackups = 3
	MaxAgeDays = 28
)

// New returns a logger for cfg. Output goes to the configured log file when
// one is set, otherwise to w. The returned closer releases the file.
func New(cfg config.LogConfig, w io.Writer) (*log.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
			Compress:   true,
		}
		w, closer = rotator, rotator
	}
	if w == nil {
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	logger.SetLevel(ParseLevel(cfg.Level))
	return logger, closer, nil
}

// ParseLevel maps a config level to a log level. Unknown values mean info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// With returns a child logger tagged with a component name.
func With(l *log.Logger, component string) *log.Logger {
	return l.With("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
