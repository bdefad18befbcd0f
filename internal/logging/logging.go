// Package logging builds the process-wide JSON slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where logs go.
type Config struct {
	Level slog.Level
	// File, when set, receives a rotated copy of every record.
	File string
	// Console is the primary writer; nil means stdout.
	Console io.Writer
}

// Logger is the built logger plus the handles needed to adjust and release it.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar
	file  *lumberjack.Logger
}

// New creates the logger. The level can be changed later through Level.
func New(cfg Config) (*Logger, error) {
	var w io.Writer = os.Stdout
	if cfg.Console != nil {
		w = cfg.Console
	}

	l := &Logger{Level: new(slog.LevelVar)}
	l.Level.Set(cfg.Level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(w, l.file)
	}

	l.Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l.Level}))
	return l, nil
}

// SetLevel changes the minimum level of all records from now on.
func (l *Logger) SetLevel(level slog.Level) {
	if l.Level.Level() == level {
		return
	}
	l.Info("log level changed",
		slog.String("from", l.Level.Level().String()),
		slog.String("to", level.String()))
	l.Level.Set(level)
}

// Close flushes and closes the rotated file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
