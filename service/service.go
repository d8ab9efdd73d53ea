// Package service holds the business operations dispatched by the API
// and the CLI. Each operation validates nothing itself: it receives a
// payload that already passed its schema rule set.
package service

import "context"

// Logger is the structured logger the services write to
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// AudioLookup finds pronunciation audio for a word. It returns an empty
// string when nothing is found and never fails.
type AudioLookup interface {
	AudioURL(ctx context.Context, word string) string
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type noAudio struct{}

func (noAudio) AudioURL(context.Context, string) string { return "" }

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
