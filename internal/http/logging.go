package http

import (
	"log/slog"
	"net/http"
)

// pathAttrs maps route wildcards to the log attributes used by the engine services.
var pathAttrs = []struct {
	wildcard string
	key      string
}{
	{"candidateID", "candidate_id"},
	{"companyID", "company_id"},
	{"offerID", "offer_id"},
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// requestLogger derives the logger for one handler call: the request-scoped logger
// when RequestLogger ran, else fallback, tagged with the handler, the operation and
// every identifier present in the route.
func requestLogger(r *http.Request, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(r.Context())
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	pairs := make([]any, 0, 4+2*len(pathAttrs)+len(attrs))
	pairs = append(pairs, "handler", handlerName, "operation", operation)
	for _, p := range pathAttrs {
		if v := r.PathValue(p.wildcard); v != "" {
			pairs = append(pairs, p.key, v)
		}
	}
	return logger.With(append(pairs, attrs...)...)
}
