package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/company-directory/pkg/logger"

	"github.com/google/uuid"
)

type traceKey struct{}

const TraceHeader = "X-Trace-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		ctx = context.WithValue(ctx, traceKey{}, traceID)

		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the id assigned by RequestID, or "".
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return ""
}
