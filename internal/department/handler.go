package department

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	ListDepartments(ctx context.Context) ([]*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	CreateDepartment(ctx context.Context, dto CreateDepartmentDTO, actorID int64) (*Department, error)
	UpdateDepartment(ctx context.Context, dto UpdateDepartmentDTO, actorID int64) (*Department, error)
	DeleteDepartment(ctx context.Context, id, actorID int64) error
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
	return h.Service.ListDepartments(ctx)
}

func (h *Handler) Get(ctx context.Context, req transport.RequestData) (interface{}, error) {
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrIDRequired
	}
	return h.Service.GetDepartment(ctx, id)
}

func (h *Handler) Create(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	return h.Service.CreateDepartment(ctx, CreateDepartmentDTO{Name: req.String("name")}, actorID)
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
	return h.Service.UpdateDepartment(ctx, UpdateDepartmentDTO{ID: id, Name: req.String("name")}, actorID)
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
	if err := h.Service.DeleteDepartment(ctx, id, actorID); err != nil {
		return nil, err
	}
	return true, nil
}
