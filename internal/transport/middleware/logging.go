package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// redactedKeys match, by substring, header and field names whose values
// never reach the log.
var redactedKeys = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"session",
	"cookie",
	"credential",
}

const (
	redacted = "[FILTERED]"

	// maxLoggedBody caps how much of a request or response body is logged.
	maxLoggedBody = 4096
)

// LoggingMiddleware logs each request and its outcome. Envelopes travel with
// HTTP 200 by default, so the level follows the envelope code when the
// response carries one.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := TraceID(r.Context())

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
			logger.Info("request received",
				"trace_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", redactBody([]byte(r.URL.RawQuery)),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", redactBody(truncate(body)),
			)

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			code := envelopeCode(rec.captured.Bytes(), rec.status)
			logger.Log(r.Context(), levelFor(code), "request completed",
				"trace_id", traceID,
				"status", rec.status,
				"envelope_code", code,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", rec.written,
				"body", redactBody(rec.captured.Bytes()),
			)
		})
	}
}

type recordingWriter struct {
	http.ResponseWriter
	status   int
	written  int
	captured bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - w.captured.Len(); room > 0 {
		w.captured.Write(b[:min(len(b), room)])
	}
	w.written += len(b)
	return w.ResponseWriter.Write(b)
}

// envelopeCode returns the code of a {status, code, data} body, or status
// when the body is not an envelope.
func envelopeCode(body []byte, status int) int {
	var env struct {
		Code int `json:"code"`
	}
	if json.Unmarshal(body, &env) == nil && env.Code != 0 {
		return env.Code
	}
	return status
}

func levelFor(code int) slog.Level {
	switch {
	case code >= http.StatusInternalServerError:
		return slog.LevelError
	case code >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func truncate(body []byte) []byte {
	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody]
	}
	return body
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody renders a JSON or urlencoded body with secret fields masked.
// Anything else is dropped if it mentions a secret field name.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		out, err := json.Marshal(redactValue(decoded))
		if err != nil {
			return "[unloggable body]"
		}
		return string(out)
	}

	if form, err := url.ParseQuery(string(body)); err == nil && len(form) > 0 {
		for key := range form {
			if isRedacted(key) {
				form[key] = []string{redacted}
			}
		}
		if s, err := url.QueryUnescape(form.Encode()); err == nil {
			return s
		}
		return form.Encode()
	}

	if isRedacted(string(body)) {
		return redacted
	}
	return string(body)
}

func redactValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			if isRedacted(k) {
				out[k] = redacted
				continue
			}
			out[k] = redactValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = redactValue(item)
		}
		return out
	default:
		return value
	}
}

func isRedacted(name string) bool {
	lower := strings.ToLower(name)
	for _, key := range redactedKeys {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}
