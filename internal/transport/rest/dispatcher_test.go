package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/transport"
	"github.com/frahmantamala/company-directory/internal/transport/rest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

type envelope struct {
	Status string          `json:"status"`
	Code   int             `json:"code"`
	Data   json.RawMessage `json:"data"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	ExpectWithOffset(1, json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
	return env
}

var _ = Describe("ParseRoute", func() {
	It("should normalise module, controller and action", func() {
		route, err := rest.ParseRoute("/api/USER/companyPosition/LIST")
		Expect(err).NotTo(HaveOccurred())
		Expect(route).To(Equal(rest.Route{Module: "User", Controller: "Companyposition", Action: "list"}))
	})

	It("should keep the optional parameter", func() {
		route, err := rest.ParseRoute("/api/app/app/get/12")
		Expect(err).NotTo(HaveOccurred())
		Expect(route.Param).To(Equal("12"))
	})

	It("should discard everything before api", func() {
		route, err := rest.ParseRoute("/v2/service/api/user/user/list")
		Expect(err).NotTo(HaveOccurred())
		Expect(route.Module).To(Equal("User"))
	})

	DescribeTable("rejected paths",
		func(path, message string) {
			_, err := rest.ParseRoute(path)
			Expect(err).To(MatchError(message))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		},
		Entry("no api segment", "/user/user/list", "Invalid API route"),
		Entry("too short", "/api/user/user", "Insufficient URL parts"),
		Entry("bad controller", "/api/user/us-er/list", "Invalid controller name"),
	)
})

var _ = Describe("Dispatcher", func() {
	var (
		dispatcher *rest.Dispatcher
		seen       transport.RequestData
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		dispatcher = rest.NewDispatcher(logger, rest.DispatcherOptions{})
		seen = nil

		dispatcher.Handle("user", "demo", "echo", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			seen = req
			return map[string]string{"ok": "yes"}, nil
		})
		dispatcher.Handle("user", "demo", "fail", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			return nil, internal.NewConflictError("already there", internal.ErrCodeDuplicateName)
		})
		dispatcher.Handle("user", "demo", "soft", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			return map[string]interface{}{"error": "soft failure", "code": 403}, nil
		})
		dispatcher.Handle("user", "demo", "bare", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			return map[string]interface{}{"error": "nope"}, nil
		})
		dispatcher.Handle("user", "demo", "boom", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			panic("boom")
		})
		dispatcher.Handle("user", "demo", "plain", func(ctx context.Context, req transport.RequestData) (interface{}, error) {
			return nil, errors.New("driver exploded")
		})
	})

	serve := func(r *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		dispatcher.ServeHTTP(w, r)
		return w
	}

	It("should wrap results in a success envelope", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/api/user/demo/echo", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		env := decode(w)
		Expect(env.Status).To(Equal("success"))
		Expect(env.Code).To(Equal(200))
		Expect(string(env.Data)).To(MatchJSON(`{"ok":"yes"}`))
	})

	It("should merge query, body, param and token with the body winning", func() {
		body := strings.NewReader(`{"name":"from-body","count":3}`)
		r := httptest.NewRequest(http.MethodPost, "/api/user/demo/echo/7?name=from-query&extra=1", body)
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer abc.def")
		serve(r)

		Expect(seen.String("name")).To(Equal("from-body"))
		Expect(seen.String("extra")).To(Equal("1"))
		Expect(seen.Int64("count")).To(Equal(int64(3)))
		Expect(seen.Param()).To(Equal("7"))
		Expect(seen.Token()).To(Equal("abc.def"))
	})

	It("should read form bodies", func() {
		form := url.Values{"username": {"jdoe"}}
		r := httptest.NewRequest(http.MethodPost, "/api/user/demo/echo", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		serve(r)
		Expect(seen.String("username")).To(Equal("jdoe"))
	})

	It("should reject malformed json", func() {
		r := httptest.NewRequest(http.MethodPost, "/api/user/demo/echo", strings.NewReader(`{"name":`))
		r.Header.Set("Content-Type", "application/json")
		env := decode(serve(r))
		Expect(env.Status).To(Equal("error"))
		Expect(env.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer unknown routes with 404 in the body", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/api/user/nothing/here", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		env := decode(w)
		Expect(env.Status).To(Equal("error"))
		Expect(env.Code).To(Equal(404))
		Expect(string(env.Data)).To(Equal(`"Method or class not found!"`))
	})

	It("should carry the status of domain errors", func() {
		env := decode(serve(httptest.NewRequest(http.MethodPost, "/api/user/demo/fail", nil)))
		Expect(env.Code).To(Equal(422))
		Expect(string(env.Data)).To(Equal(`"already there"`))
	})

	It("should treat a result with an error key as a failure", func() {
		env := decode(serve(httptest.NewRequest(http.MethodPost, "/api/user/demo/soft", nil)))
		Expect(env.Status).To(Equal("error"))
		Expect(env.Code).To(Equal(403))
		Expect(string(env.Data)).To(Equal(`"soft failure"`))
	})

	It("should default an error result without a code to 400", func() {
		env := decode(serve(httptest.NewRequest(http.MethodPost, "/api/user/demo/bare", nil)))
		Expect(env.Status).To(Equal("error"))
		Expect(env.Code).To(Equal(http.StatusBadRequest))
		Expect(string(env.Data)).To(Equal(`"nope"`))
	})

	It("should hide unexpected errors and panics behind a 500", func() {
		env := decode(serve(httptest.NewRequest(http.MethodPost, "/api/user/demo/plain", nil)))
		Expect(env.Code).To(Equal(500))
		Expect(string(env.Data)).NotTo(ContainSubstring("driver"))

		env = decode(serve(httptest.NewRequest(http.MethodPost, "/api/user/demo/boom", nil)))
		Expect(env.Code).To(Equal(500))
	})

	It("should mirror the envelope code when asked to", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		mirrored := rest.NewDispatcher(logger, rest.DispatcherOptions{MirrorStatusCode: true})
		w := httptest.NewRecorder()
		mirrored.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/nothing/here", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should list registered routes in normalised form", func() {
		Expect(dispatcher.Routes()).To(ContainElements("User/Demo/echo", "User/Demo/boom"))
		Expect(dispatcher.Routes()).To(HaveLen(6))
	})

	It("should refuse duplicate registrations", func() {
		Expect(func() {
			dispatcher.Handle("User", "DEMO", "Echo", nil)
		}).To(Panic())
	})
})
