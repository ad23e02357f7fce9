package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"disruptions.onebusaway.org/internal/logging"
)

// NewRequestLoggingMiddleware writes one access-log line per request and
// puts a request-scoped logger in the context for downstream handlers.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := GetRequestID(r.Context())

			scoped := logger.With(slog.String("request_id", reqID))
			r = r.WithContext(logging.WithLogger(r.Context(), scoped))
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path,
				rec.status,
				float64(time.Since(start).Microseconds())/1e3,
				slog.String("request_id", reqID),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
