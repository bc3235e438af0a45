package companyposition

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	ListPositions(ctx context.Context) ([]*CompanyPosition, error)
	GetPosition(ctx context.Context, id int64) (*CompanyPosition, error)
	CreatePosition(ctx context.Context, dto CreatePositionDTO, actorID int64) (*CompanyPosition, error)
	UpdatePosition(ctx context.Context, dto UpdatePositionDTO, actorID int64) (*CompanyPosition, error)
	DeletePosition(ctx context.Context, id, actorID int64) error
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
	return h.Service.ListPositions(ctx)
}

func (h *Handler) Get(ctx context.Context, req transport.RequestData) (interface{}, error) {
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrIDRequired
	}
	return h.Service.GetPosition(ctx, id)
}

func (h *Handler) Create(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.Service.CreatePosition(ctx, CreatePositionDTO{Name: req.String("name")}, actorID)
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
	return h.Service.UpdatePosition(ctx, UpdatePositionDTO{ID: id, Name: req.String("name")}, actorID)
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
	if err := h.Service.DeletePosition(ctx, id, actorID); err != nil {
		return nil, err
	}
	return true, nil
}
