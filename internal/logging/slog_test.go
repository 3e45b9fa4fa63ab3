package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func debugSlog() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	cases := []struct {
		name  string
		call  func(Logger, context.Context)
		level string
	}{
		{"debug", func(l Logger, ctx context.Context) { l.Debug(ctx, "staged", "n", 1) }, "DEBUG"},
		{"info", func(l Logger, ctx context.Context) { l.Info(ctx, "staged", "n", 1) }, "INFO"},
		{"warn", func(l Logger, ctx context.Context) { l.Warn(ctx, "staged", "n", 1) }, "WARN"},
		{"error", func(l Logger, ctx context.Context) { l.Error(ctx, "staged", "n", 1) }, "ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, buf := debugSlog()
			tc.call(l, context.Background())
			assert.Contains(t, buf.String(), "level="+tc.level)
			assert.Contains(t, buf.String(), "msg=staged n=1")
		})
	}
}

func TestSlogLogger_WithAndContextFields(t *testing.T) {
	l, buf := debugSlog()
	ctx := WithFields(context.Background(), "command", "send")
	ctx = WithFields(ctx, "property_id", "p-7")

	l.With("service", "reports").Info(ctx, "report created", "report_id", "r1")

	assert.Contains(t, buf.String(), "service=reports command=send property_id=p-7 report_id=r1")
}

func TestWithFields_DoesNotLeakBetweenBranches(t *testing.T) {
	base := WithFields(context.Background(), "a", 1)
	left := WithFields(base, "b", 2)
	right := WithFields(base, "c", 3)

	assert.Equal(t, []any{"a", 1, "b", 2}, withContextFields(left, nil))
	assert.Equal(t, []any{"a", 1, "c", 3, "x", 9}, withContextFields(right, []any{"x", 9}))
	assert.Equal(t, []any{"x"}, withContextFields(nil, []any{"x"}))
}

func TestSlogLogger_NilContext(t *testing.T) {
	l, buf := debugSlog()
	l.Warn(nil, "no ctx")
	assert.Contains(t, buf.String(), "msg=\"no ctx\"")
}
