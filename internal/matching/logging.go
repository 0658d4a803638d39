package matching

import (
	"context"
	"log/slog"

	"github.com/example/talent-matching/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, component, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"component", component}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// logOutcome records the result of a mutating operation. Business rejections are
// expected traffic and log at info; anything else is an error.
func logOutcome(ctx context.Context, logger *slog.Logger, message string, err error) {
	if err == nil {
		logger.InfoContext(ctx, message, "result", ResultOK)
		return
	}
	result := ResultOf(err)
	if result == ResultUnexpected {
		logger.ErrorContext(ctx, message+" failed", "error", err, "error_kind", ErrorKind(err))
		return
	}
	logger.InfoContext(ctx, message+" rejected", "result", result, "error", err)
}
