package logging

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Config holds the logger configuration
type Config struct {
	Level      string
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

// Logger is the structured logger shared by every component. Messages are
// followed by alternating key value pairs.
type Logger struct {
	log *charmlog.Logger
}

// New builds a Logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	level, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = charmlog.InfoLevel
	}

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           level,
	})

	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}

	return &Logger{log: l}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return New(Config{Output: io.Discard, Level: "error"})
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

// With returns a child logger that always carries args
func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...)}
}

// GetLogger returns a child logger prefixed with name
func (l *Logger) GetLogger(name string) *Logger {
	prefix := name
	if current := l.log.GetPrefix(); current != "" {
		prefix = current + "." + name
	}
	return &Logger{log: l.log.WithPrefix(prefix)}
}
