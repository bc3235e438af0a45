package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/transport"
	"github.com/frahmantamala/company-directory/pkg/logger"
)

const maxBodyBytes = 1 << 20

var controllerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Route is a parsed /api/{module}/{controller}/{action}[/{param}] path.
// Module and Controller are title-cased, Action is lower case.
type Route struct {
	Module     string
	Controller string
	Action     string
	Param      string
}

func (r Route) key() routeKey {
	return routeKey{module: r.Module, controller: r.Controller, action: r.Action}
}

type routeKey struct {
	module     string
	controller string
	action     string
}

// ParseRoute splits path into a Route. Every segment up to and including
// the first "api" is discarded.
func ParseRoute(path string) (Route, error) {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	apiIndex := -1
	for i, s := range segments {
		if s == "api" {
			apiIndex = i
			break
		}
	}
	if apiIndex < 0 {
		return Route{}, internal.NewRouteError("Invalid API route", internal.ErrCodeInvalidRoute)
	}

	parts := segments[apiIndex+1:]
	if len(parts) < 3 {
		return Route{}, internal.NewRouteError("Insufficient URL parts", internal.ErrCodeInsufficientParts)
	}

	route := Route{
		Module:     titleLower(parts[0]),
		Controller: titleLower(parts[1]),
		Action:     strings.ToLower(parts[2]),
	}
	if len(parts) > 3 {
		route.Param = parts[3]
	}

	if !controllerNamePattern.MatchString(route.Controller) {
		return Route{}, internal.NewRouteError("Invalid controller name", internal.ErrCodeInvalidController)
	}
	return route, nil
}

func titleLower(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type DispatcherOptions struct {
	// MirrorStatusCode writes the envelope code as the HTTP status too.
	MirrorStatusCode bool
	ActionTimeout    time.Duration
}

// Dispatcher maps parsed routes to actions through an explicit table and
// writes exactly one envelope per request.
type Dispatcher struct {
	routes  map[routeKey]transport.ActionFunc
	logger  *slog.Logger
	options DispatcherOptions
}

func NewDispatcher(lg *slog.Logger, opts DispatcherOptions) *Dispatcher {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Dispatcher{
		routes:  make(map[routeKey]transport.ActionFunc),
		logger:  lg,
		options: opts,
	}
}

// Handle registers fn under module/controller/action. Names are normalised
// the same way incoming paths are, so "companyPosition" and
// "companyposition" are the same controller.
func (d *Dispatcher) Handle(module, controller, action string, fn transport.ActionFunc) {
	key := routeKey{
		module:     titleLower(module),
		controller: titleLower(controller),
		action:     strings.ToLower(action),
	}
	if _, exists := d.routes[key]; exists {
		panic(fmt.Sprintf("dispatcher: duplicate route %s/%s/%s", module, controller, action))
	}
	d.routes[key] = fn
}

// Routes returns the registered routes as module/controller/action strings.
func (d *Dispatcher) Routes() []string {
	out := make([]string, 0, len(d.routes))
	for k := range d.routes {
		out = append(out, fmt.Sprintf("%s/%s/%s", k.module, k.controller, k.action))
	}
	return out
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.From(r.Context())

	route, err := ParseRoute(r.URL.Path)
	if err != nil {
		d.finish(w, log, unmatchedRoute, nil, err, start)
		return
	}

	fn, ok := d.routes[route.key()]
	if !ok {
		d.finish(w, log, unmatchedRoute, nil, internal.ErrRouteNotFound, start)
		return
	}
	log = log.With("module", route.Module, "controller", route.Controller, "action", route.Action)

	data, err := buildRequestData(w, r, route.Param, transport.ExtractTokenFromHeader(r))
	if err != nil {
		d.finish(w, log, route, nil, err, start)
		return
	}

	ctx, cancel := internal.WithTimeout(logger.With(r.Context(),
		"module", route.Module, "controller", route.Controller, "action", route.Action),
		d.options.ActionTimeout)
	defer cancel()

	result, err := d.invoke(ctx, fn, data)
	if err == nil {
		err = errorFromResult(result)
	}
	d.finish(w, log, route, result, err, start)
}

func (d *Dispatcher) invoke(ctx context.Context, fn transport.ActionFunc, data transport.RequestData) (result interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = internal.NewInternalError("Internal server error", fmt.Errorf("panic: %v", rec))
		}
	}()
	return fn(ctx, data)
}

func (d *Dispatcher) finish(w http.ResponseWriter, log *slog.Logger, route Route, result interface{}, err error, start time.Time) {
	env := transport.Success(result)
	if err != nil {
		env = d.errorEnvelope(log, err)
	}
	observeDispatch(route, env.Code, time.Since(start))
	transport.WriteEnvelope(w, env, d.options.MirrorStatusCode, d.logger)
}

func (d *Dispatcher) errorEnvelope(log *slog.Logger, err error) transport.Envelope {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		log.Error("unhandled action error", "error", err)
		return transport.Failure(http.StatusInternalServerError, "Internal server error")
	}

	code := appErr.StatusCode
	if code == 0 {
		code = http.StatusInternalServerError
	}
	if code >= http.StatusInternalServerError {
		log.Error("action failed", "code", code, "error", appErr.GetDetailedMessage())
	} else {
		log.Warn("action rejected", "code", code, "type", appErr.Type, "message", appErr.Message)
	}
	return transport.Failure(code, appErr.Message)
}

// errorFromResult treats a map result carrying an "error" key as a failure.
func errorFromResult(result interface{}) error {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}
	msg, hasError := m["error"]
	if !hasError {
		return nil
	}
	code, _ := transport.ToInt64(m["code"])
	return internal.NewErrorWithCode(fmt.Sprint(msg), int(code))
}

// buildRequestData merges query and body values, body winning on
// collision, then overlays the path parameter and the bearer token.
func buildRequestData(w http.ResponseWriter, r *http.Request, param, token string) (transport.RequestData, error) {
	data := transport.RequestData{}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			data[key] = values[len(values)-1]
		}
	}

	body, err := parseBody(w, r)
	if err != nil {
		return nil, err
	}
	for key, value := range body {
		data[key] = value
	}

	if param != "" {
		data[transport.ParamKey] = param
	}
	if token != "" {
		data[transport.TokenKey] = token
	}
	return data, nil
}

func parseBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]interface{}
		if err := dec.Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, internal.NewRouteError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
		}
		return body, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, internal.NewRouteError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
		}
		return lastValues(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, internal.NewRouteError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
		}
		return lastValues(r.MultipartForm.Value), nil
	}
	return nil, nil
}

func lastValues(values map[string][]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for key, v := range values {
		if len(v) > 0 {
			out[key] = v[len(v)-1]
		}
	}
	return out
}
