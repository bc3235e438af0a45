package transport

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/pkg/logger"
)

// TokenValidator resolves a bearer token to the id of the user it was
// issued to.
type TokenValidator interface {
	ValidateTokenAndGetCurrentUser(ctx context.Context, token string) (int64, error)
}

// BaseHandler provides common functionality for controllers
type BaseHandler struct {
	Logger *slog.Logger
	Tokens TokenValidator
}

// NewBaseHandler creates a base handler with logger and token validator
func NewBaseHandler(lg *slog.Logger, tokens TokenValidator) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Tokens: tokens}
}

// CurrentUserID validates the request token and returns the caller's id.
func (h *BaseHandler) CurrentUserID(ctx context.Context, req RequestData) (int64, error) {
	if h.Tokens == nil {
		return 0, internal.NewInternalError("token validation is not configured", nil)
	}
	return h.Tokens.ValidateTokenAndGetCurrentUser(ctx, req.Token())
}

var bearerPattern = regexp.MustCompile(`Bearer\s(\S+)`)

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value, or "" when there is none.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	m := bearerPattern.FindStringSubmatch(header)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	return ExtractBearerToken(r.Header.Get("Authorization"))
}
