package errors

import "log/slog"

// LogHandler is an ErrorHandler that logs errors via slog.
type LogHandler struct {
	// Logger overrides slog.Default() when set.
	Logger *slog.Logger
	// Verbose enables detailed output including the underlying error chain.
	Verbose bool
}

// HandleError logs a SegError.
func (h *LogHandler) HandleError(err *SegError) {
	if err == nil {
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Path != "" {
		attrs = append(attrs, slog.String("path", err.Path))
	}
	if h.Verbose && err.Err != nil {
		attrs = append(attrs, slog.Any("cause", err.Err))
	}
	logger.Warn(err.Error(), attrs...)
}
