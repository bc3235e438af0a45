package app

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	ListApps(ctx context.Context) ([]*App, error)
	GetApp(ctx context.Context, id int64) (*App, error)
	CreateApp(ctx context.Context, dto CreateAppDTO, actorID int64) (*App, error)
	UpdateApp(ctx context.Context, dto UpdateAppDTO, actorID int64) (*App, error)
	DeleteApp(ctx context.Context, id, actorID int64) (bool, error)
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

func (h *Handler) List(ctx context.Context, req transport.RequestData) (interface{}, error) {
	return h.Service.ListApps(ctx)
}

func (h *Handler) Get(ctx context.Context, req transport.RequestData) (interface{}, error) {
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrFetchIDMissing
	}
	return h.Service.GetApp(ctx, id)
}

func (h *Handler) Create(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	dto := CreateAppDTO{
		Name:   req.String("name"),
		URL:    req.String("url"),
		Active: activeFromRequest(req),
	}
	return h.Service.CreateApp(ctx, dto, actorID)
}

func (h *Handler) Update(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrIDRequired
	}
	dto := UpdateAppDTO{
		ID:     id,
		Name:   req.String("name"),
		URL:    req.String("url"),
		Active: activeFromRequest(req),
	}
	return h.Service.UpdateApp(ctx, dto, actorID)
}

func (h *Handler) Delete(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrIDRequired
	}
	return h.Service.DeleteApp(ctx, id, actorID)
}

// activeFromRequest returns nil when the flag is missing or unreadable.
func activeFromRequest(req transport.RequestData) *bool {
	if !req.Present("active") {
		return nil
	}
	v, ok := req.Bool("active")
	if !ok {
		return nil
	}
	return &v
}
