package auth

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/assignment"
	"github.com/frahmantamala/company-directory/internal/transport"
	"github.com/frahmantamala/company-directory/internal/user"
)

type ServiceAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// UserCreator adds new users during registration.
type UserCreator interface {
	CreateUser(ctx context.Context, dto user.CreateUserDTO, actorID int64) (*user.User, error)
}

type Assigner interface {
	Assign(ctx context.Context, userID int64, department, position assignment.Ref, actorID int64) (*assignment.Assignment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Users    UserCreator
	Assigner Assigner
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, users UserCreator, assigner Assigner) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Users:       users,
		Assigner:    assigner,
	}
}

// Register creates a user, places them, and logs them in. The new user is
// recorded as the author of their own assignment.
func (h *Handler) Register(ctx context.Context, req transport.RequestData) (interface{}, error) {
	dto := user.CreateUserFromRequest(req)

	created, err := h.Users.CreateUser(ctx, dto, 0)
	if err != nil {
		return nil, err
	}

	if _, err := h.Assigner.Assign(ctx, created.ID,
		assignment.ParseRef(req.Raw("department")),
		assignment.ParseRef(req.Raw("position")),
		created.ID); err != nil {
		return nil, err
	}

	return h.Service.Login(ctx, created.Username, dto.Password)
}

func (h *Handler) Login(ctx context.Context, req transport.RequestData) (interface{}, error) {
	username := req.String("username")
	password := req.String("password")
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	return h.Service.Login(ctx, username, password)
}

func (h *Handler) Logout(ctx context.Context, req transport.RequestData) (interface{}, error) {
	if err := h.Service.Logout(ctx, req.Token()); err != nil {
		return nil, err
	}
	return true, nil
}
