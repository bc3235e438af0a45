package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("CORS", func() {
	It("should answer preflight requests without reaching the handler", func() {
		reached := false
		h := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/app/app/list", nil))

		Expect(reached).To(BeFalse())
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("Authorization"))
	})

	It("should echo only listed origins", func() {
		h := CORS("https://intranet.company.com, https://admin.company.com")(okHandler)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://admin.company.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.company.com"))

		r = httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RateLimit", func() {
	It("should reject requests beyond the burst with a 429 envelope", func() {
		h := RateLimit(0.001, 1, false, discardLogger())(okHandler)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		var env struct {
			Status string `json:"status"`
			Code   int    `json:"code"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Status).To(Equal("error"))
		Expect(env.Code).To(Equal(http.StatusTooManyRequests))
	})

	It("should pass everything through when disabled", func() {
		h := RateLimit(0, 0, false, discardLogger())(okHandler)
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
		}
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should turn a panic into a 500 envelope", func() {
		h := RecoveryMiddleware(discardLogger(), true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		Expect(func() {
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		}).NotTo(Panic())
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("Internal server error"))
	})
})

var _ = Describe("RequestID", func() {
	It("should keep an incoming trace id and expose it on the context", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = TraceID(r.Context())
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TraceHeader, "trace-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		Expect(seen).To(Equal("trace-1"))
		Expect(w.Header().Get(TraceHeader)).To(Equal("trace-1"))
	})

	It("should generate one when missing", func() {
		w := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should log rejected envelopes at warn even with HTTP 200", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&buf, nil))
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			Expect(string(body)).To(ContainSubstring("hunter2"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"error","code":422,"data":"The field 'email' is required"}`))
		}))

		r := httptest.NewRequest(http.MethodPost, "/api/user/user/create", strings.NewReader(`{"username":"jdoe","password":"hunter2"}`))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(buf.String()).To(ContainSubstring(`level=WARN msg="request completed"`))
		Expect(buf.String()).To(ContainSubstring("envelope_code=422"))
		Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
	})

	It("should fall back to the HTTP status for other bodies", func() {
		Expect(envelopeCode([]byte("pong"), http.StatusOK)).To(Equal(http.StatusOK))
		Expect(levelFor(http.StatusInternalServerError)).To(Equal(slog.LevelError))
	})
})

var _ = Describe("redactBody", func() {
	It("should mask secrets in json bodies", func() {
		out := redactBody([]byte(`{"username":"jdoe","password":"hunter2","nested":{"token":"abc"}}`))
		Expect(out).To(ContainSubstring(`"username":"jdoe"`))
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).NotTo(ContainSubstring("abc"))
	})

	It("should mask secrets in form bodies", func() {
		out := redactBody([]byte("username=jdoe&password=hunter2"))
		Expect(out).To(ContainSubstring("username=jdoe"))
		Expect(out).To(ContainSubstring("password=[FILTERED]"))
		Expect(out).NotTo(ContainSubstring("hunter2"))
	})

	It("should mask authorization headers", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")
		filtered := redactHeaders(h)
		Expect(filtered["Authorization"]).NotTo(ContainSubstring("abc"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})
})
