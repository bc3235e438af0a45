package assignment

import (
	"context"

	"github.com/frahmantamala/company-directory/internal/transport"
)

type ServiceAPI interface {
	Assign(ctx context.Context, userID int64, department, position Ref, actorID int64) (*Assignment, error)
	Revoke(ctx context.Context, assignmentID, actorID int64) (bool, error)
	GetAssignmentForUser(ctx context.Context, userID int64) (*Assignment, error)
	UserHasAssignment(ctx context.Context, userID, departmentID, positionID int64) (bool, error)
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

// List returns the active assignment of the user named by param, or null.
func (h *Handler) List(ctx context.Context, req transport.RequestData) (interface{}, error) {
	userID := req.Int64(transport.ParamKey)
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}
	a, err := h.Service.GetAssignmentForUser(ctx, userID)
	if err != nil || a == nil {
		return nil, err
	}
	return a, nil
}

func (h *Handler) Assign(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}

	userID, departmentID, positionID, err := assignmentIDs(req)
	if err != nil {
		return nil, err
	}
	return h.Service.Assign(ctx, userID, ByID(departmentID), ByID(positionID), actorID)
}

func (h *Handler) Revoke(ctx context.Context, req transport.RequestData) (interface{}, error) {
	actorID, err := h.CurrentUserID(ctx, req)
	if err != nil {
		return nil, err
	}
	id := req.Int64(transport.ParamKey)
	if id <= 0 {
		return nil, ErrAssignmentIDRequired
	}
	return h.Service.Revoke(ctx, id, actorID)
}

func (h *Handler) Check(ctx context.Context, req transport.RequestData) (interface{}, error) {
	userID, departmentID, positionID, err := assignmentIDs(req)
	if err != nil {
		return nil, err
	}
	return h.Service.UserHasAssignment(ctx, userID, departmentID, positionID)
}

func assignmentIDs(req transport.RequestData) (userID, departmentID, positionID int64, err error) {
	userID = req.Int64("userId")
	departmentID = req.Int64("departmentId")
	positionID = req.Int64("companyPositionId")
	if userID <= 0 || departmentID <= 0 || positionID <= 0 {
		return 0, 0, 0, ErrAssignFieldsRequired
	}
	return userID, departmentID, positionID, nil
}
