package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/transport"
	"golang.org/x/time/rate"
)

// RateLimit applies one process-wide token bucket. A non-positive rps
// disables limiting.
func RateLimit(rps float64, burst int, mirrorStatus bool, logger *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = int(rps) + 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("rate limit exceeded", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				appErr := internal.ErrTooManyRequests
				transport.WriteEnvelope(w, transport.Failure(appErr.StatusCode, appErr.Message), mirrorStatus, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
