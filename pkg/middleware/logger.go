package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// logEntry collects request-scoped attributes that inner middleware resolves
// after the logger has already wrapped the request.
type logEntry struct {
	userID string
}

type logEntryKey struct{}

// SetLogUserID records the resolved owner id on the request's log entry. A
// no-op when the request was not wrapped by NewStructuredLogger.
func SetLogUserID(ctx context.Context, userID string) {
	if entry, ok := ctx.Value(logEntryKey{}).(*logEntry); ok {
		entry.userID = userID
	}
}

// NewStructuredLogger is a custom middleware that provides structured logging for requests.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := &logEntry{}
			r = r.WithContext(context.WithValue(r.Context(), logEntryKey{}, entry))

			t_start := time.Now()
			defer func() {
				status := tww.Status()
				latency := time.Since(t_start)

				requestAttrs := slog.Group("request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_id", entry.userID),
				)

				responseAttrs := slog.Group("response",
					slog.Int("status", status),
					slog.Int("bytes", tww.BytesWritten()),
					slog.String("latency", latency.String()),
				)

				if status >= 500 {
					logger.Error("server error", requestAttrs, responseAttrs)
				} else {
					logger.Info("request completed", requestAttrs, responseAttrs)
				}
			}()

			next.ServeHTTP(tww, r)
		}
		return http.HandlerFunc(fn)
	}
}
