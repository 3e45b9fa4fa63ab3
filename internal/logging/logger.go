// Package logging is the structured logger used across depositkeeper. Two
// backends exist, log/slog and zap; both read extra fields from the
// context so a REPL command or a send run can tag every line it causes.
package logging

import (
	"context"
	"slices"
)

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "room saved", "property_id", pid, "room_id", rid)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for best-effort steps that failed without stopping the flow.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

type fieldsKey struct{}

// WithFields returns a copy of ctx carrying key/value pairs that every
// Logger call made with it appends before its own args.
func WithFields(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]any)
	return context.WithValue(ctx, fieldsKey{}, append(slices.Clip(prev), args...))
}

func withContextFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	if len(f) == 0 {
		return args
	}
	return append(slices.Clip(f), args...)
}
