package admin

import (
	"context"
	"strings"

	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	IsAdminSet(ctx context.Context) (bool, error)
	AddAdminAs(ctx context.Context, username string, actorID int64) (*Added, error)
	RemoveAdmin(ctx context.Context, username string, actorID int64) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Configure reports whether the first admin still has to be created.
func (h *Handler) Configure(ctx context.Context, req transport.RequestData) (interface{}, error) {
	set, err := h.Service.IsAdminSet(ctx)
	if err != nil {
		return nil, err
	}
	return !set, nil
}

func (h *Handler) Add(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.String("username"))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	return h.Service.AddAdminAs(ctx, username, actorID)
}

func (h *Handler) Remove(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.String("username"))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	return h.Service.RemoveAdmin(ctx, username, actorID)
}
