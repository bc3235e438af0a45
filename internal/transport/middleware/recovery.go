package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/company-directory/internal/transport"
)

// RecoveryMiddleware turns a panic into an error envelope and logs the stack.
func RecoveryMiddleware(logger *slog.Logger, mirrorStatus bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"trace_id", TraceID(r.Context()),
						"stack", string(debug.Stack()))

					transport.WriteEnvelope(w,
						transport.Failure(http.StatusInternalServerError, "Internal server error"),
						mirrorStatus, logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
