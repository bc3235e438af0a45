package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// ParamKey holds the optional fourth path segment.
	ParamKey = "param"
	// TokenKey holds the bearer token taken from the Authorization header.
	TokenKey = "token"
)

// RequestData is the merged query, body, path parameter and token input
// handed to every action.
type RequestData map[string]interface{}

// ActionFunc is a routed controller action.
type ActionFunc func(ctx context.Context, req RequestData) (interface{}, error)

func (r RequestData) Raw(key string) interface{} {
	if r == nil {
		return nil
	}
	return r[key]
}

// Has reports whether key is present with a non-empty value.
func (r RequestData) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

// Present reports whether key was supplied at all, even if empty.
func (r RequestData) Present(key string) bool {
	_, ok := r[key]
	return ok
}

func (r RequestData) String(key string) string {
	switch v := r.Raw(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns the value as an integer, or zero when it is absent or not
// a whole number.
func (r RequestData) Int64(key string) int64 {
	n, _ := ToInt64(r.Raw(key))
	return n
}

// Bool interprets the value the way HTML forms and JSON clients send flags.
// ok is false when the value is absent or not recognisable.
func (r RequestData) Bool(key string) (value bool, ok bool) {
	switch v := r.Raw(key).(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case json.Number, float64, int, int64:
		n, isInt := ToInt64(v)
		return n != 0, isInt
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no", "":
			return false, true
		}
	}
	return false, false
}

func (r RequestData) Param() string {
	return r.String(ParamKey)
}

func (r RequestData) Token() string {
	return r.String(TokenKey)
}

// ToInt64 converts JSON numbers, Go integers and numeric strings.
func ToInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		return 0, false
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
