package logging

import (
	"context"
	"log/slog"
	"os"
)

type loggerContextKey struct{}

// FromContext returns the logger stored in the context. Code paths that
// were not reached through a request or session middleware get a plain
// JSON logger tagged as fallback.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("logger", "fallback"))
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// AddMetaToContext attaches extra attributes to the context's logger so all
// downstream log lines carry them.
func AddMetaToContext(ctx context.Context, args ...slog.Attr) context.Context {
	attrs := make([]any, 0, len(args))
	for _, arg := range args {
		attrs = append(attrs, arg)
	}
	return AddToContext(ctx, FromContext(ctx).With(attrs...))
}
