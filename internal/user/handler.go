package user

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/assignment"
	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, dto CreateUserDTO, actorID int64) (*User, error)
	UpdateUser(ctx context.Context, dto UpdateUserDTO, actorID int64) (*User, error)
	DeleteUser(ctx context.Context, id, actorID int64) (bool, error)
}

// Assigner places a user in a department and company position.
type Assigner interface {
	Assign(ctx context.Context, userID int64, department, position assignment.Ref, actorID int64) (*assignment.Assignment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Assigner Assigner
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, assigner Assigner) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Assigner:    assigner,
	}
}

func (h *Handler) List(ctx context.Context, req transport.RequestData) (interface{}, error) {
	return h.Service.ListUsers(ctx)
}

func (h *Handler) Get(ctx context.Context, req transport.RequestData) (interface{}, error) {
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrFetchIDMissing
	}
	return h.Service.GetUser(ctx, id)
}

// Create adds the user and always records an assignment, even an empty one.
func (h *Handler) Create(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := h.Service.CreateUser(ctx, CreateUserFromRequest(req), actorID)
	if err != nil {
		return nil, err
	}

	if _, err := h.Assigner.Assign(ctx, created.ID,
		assignment.ParseRef(req.Raw("department")),
		assignment.ParseRef(req.Raw("position")),
		actorID); err != nil {
		return nil, err
	}
	return h.Service.GetUser(ctx, created.ID)
}

// Update re-assigns only when the request names a department or position.
func (h *Handler) Update(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrIDRequired
	}

	dto := UpdateUserDTO{
		ID:        id,
		Username:  req.String("username"),
		Email:     req.String("email"),
		Firstname: req.String("firstname"),
		Lastname:  req.String("lastname"),
		Password:  req.String("password"),
	}
	if _, err := h.Service.UpdateUser(ctx, dto, actorID); err != nil {
		return nil, err
	}

	if req.Present("department") || req.Present("position") {
		if _, err := h.Assigner.Assign(ctx, id,
			assignment.ParseRef(req.Raw("department")),
			assignment.ParseRef(req.Raw("position")),
			actorID); err != nil {
			return nil, err
		}
	}
	return h.Service.GetUser(ctx, id)
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
	return h.Service.DeleteUser(ctx, id, actorID)
}

// CreateUserFromRequest reads the registration and creation fields.
func CreateUserFromRequest(req transport.RequestData) CreateUserDTO {
	return CreateUserDTO{
		Username:  req.String("username"),
		Email:     req.String("email"),
		Firstname: req.String("firstname"),
		Lastname:  req.String("lastname"),
		Password:  req.String("password"),
	}
}
