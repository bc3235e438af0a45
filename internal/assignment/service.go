package assignment

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	assignmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/assignment"
	positionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/companyposition"
	departmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/department"
	"github.com/frahmantamala/company-directory/internal/core/events"
)

type RepositoryAPI interface {
	GetActiveForUser(ctx context.Context, userID int64) (*assignmentDatamodel.UserCompanyPosition, error)
	Create(ctx context.Context, a *assignmentDatamodel.UserCompanyPosition) error
	// RevokeForUser soft-deletes every active assignment of the user.
	RevokeForUser(ctx context.Context, userID int64, modifiedBy *int64, now int64) (int64, error)
	Revoke(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error)
}

type DepartmentRepository interface {
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
}

type PositionRepository interface {
	GetByID(ctx context.Context, id int64) (*positionDatamodel.CompanyPosition, error)
	GetByName(ctx context.Context, name string) (*positionDatamodel.CompanyPosition, error)
	Create(ctx context.Context, p *positionDatamodel.CompanyPosition) error
}

type Service struct {
	repo        RepositoryAPI
	departments DepartmentRepository
	positions   PositionRepository
	events      events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, departments DepartmentRepository, positions PositionRepository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		positions:   positions,
		events:      publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Assign replaces the user's current assignment. Named departments and
// positions that do not exist yet are created. The previous assignment is
// revoked before the new row is inserted; the two writes are not atomic.
func (s *Service) Assign(ctx context.Context, userID int64, department, position Ref, actorID int64) (*Assignment, error) {
	if userID <= 0 {
		return nil, ErrUserIDRequired
	}

	now := s.now().Unix()

	departmentID, err := s.resolveDepartment(ctx, department, actorID, now)
	if err != nil {
		return nil, err
	}
	positionID, err := s.resolvePosition(ctx, position, actorID, now)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.RevokeForUser(ctx, userID, actor(actorID), now)
	if err != nil {
		s.logger.Error("failed to revoke previous assignment", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to revoke previous assignment", err)
	}

	row := &assignmentDatamodel.UserCompanyPosition{
		UserID:            userID,
		DepartmentID:      departmentID,
		CompanyPositionID: positionID,
		TimeModified:      now,
		ModifiedBy:        actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create assignment", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create assignment", err)
	}

	s.logger.Info("user assigned",
		"user_id", userID,
		"department", department.String(),
		"position", position.String(),
		"revoked", revoked,
		"actor_id", actorID)

	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeAssignmentAssigned, actorID, userID,
		map[string]interface{}{"assignment_id": row.ID, "department_id": departmentID, "company_position_id": positionID}))

	return s.GetAssignmentForUser(ctx, userID)
}

func (s *Service) resolveDepartment(ctx context.Context, ref Ref, actorID, now int64) (*int64, error) {
	switch ref.Kind {
	case RefByID:
		id := ref.ID
		return &id, nil
	case RefByName:
		existing, err := s.departments.GetByName(ctx, ref.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to look up department", err)
		}
		if existing != nil {
			return &existing.ID, nil
		}

		created := &departmentDatamodel.Department{
			Name:         ref.Name,
			TimeModified: now,
			ModifiedBy:   actor(actorID),
		}
		if err := s.departments.Create(ctx, created); err != nil {
			return nil, internal.NewInternalError("failed to create department", err)
		}
		s.logger.Info("department created on assignment", "department_id", created.ID, "name", created.Name)
		return &created.ID, nil
	}
	return nil, nil
}

func (s *Service) resolvePosition(ctx context.Context, ref Ref, actorID, now int64) (*int64, error) {
	switch ref.Kind {
	case RefByID:
		id := ref.ID
		return &id, nil
	case RefByName:
		existing, err := s.positions.GetByName(ctx, ref.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to look up company position", err)
		}
		if existing != nil {
			return &existing.ID, nil
		}

		created := &positionDatamodel.CompanyPosition{
			Name:         ref.Name,
			TimeModified: now,
			ModifiedBy:   actor(actorID),
		}
		if err := s.positions.Create(ctx, created); err != nil {
			return nil, internal.NewInternalError("failed to create company position", err)
		}
		s.logger.Info("company position created on assignment", "position_id", created.ID, "name", created.Name)
		return &created.ID, nil
	}
	return nil, nil
}

// Revoke soft-deletes one assignment and reports whether a row changed.
func (s *Service) Revoke(ctx context.Context, assignmentID, actorID int64) (bool, error) {
	if assignmentID <= 0 {
		return false, ErrAssignmentIDRequired
	}

	affected, err := s.repo.Revoke(ctx, assignmentID, actor(actorID), s.now().Unix())
	if err != nil {
		s.logger.Error("failed to revoke assignment", "assignment_id", assignmentID, "error", err)
		return false, internal.NewInternalError("failed to revoke assignment", err)
	}

	if affected > 0 {
		s.logger.Info("assignment revoked", "assignment_id", assignmentID, "actor_id", actorID)
		events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeAssignmentRevoked, actorID, assignmentID, nil))
	}
	return affected > 0, nil
}

// GetAssignmentForUser returns the active assignment, or nil.
func (s *Service) GetAssignmentForUser(ctx context.Context, userID int64) (*Assignment, error) {
	row, err := s.repo.GetActiveForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get assignment", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to get assignment", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// UserHasAssignment reports whether the user has any active assignment.
// The department and position ids are accepted but not compared.
func (s *Service) UserHasAssignment(ctx context.Context, userID, departmentID, positionID int64) (bool, error) {
	a, err := s.GetAssignmentForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

// PlacementForUser resolves the department and position of the user's
// active assignment. Deleted units are left out.
func (s *Service) PlacementForUser(ctx context.Context, userID int64) (*Placement, error) {
	a, err := s.GetAssignmentForUser(ctx, userID)
	if err != nil || a == nil {
		return nil, err
	}

	placement := &Placement{}
	if a.DepartmentID != nil {
		d, err := s.departments.GetByID(ctx, *a.DepartmentID)
		if err != nil {
			return nil, internal.NewInternalError("failed to get department", err)
		}
		if d != nil {
			placement.Department = &Unit{ID: d.ID, Name: d.Name, TimeModified: d.TimeModified, ModifiedBy: d.ModifiedBy, Deleted: d.Deleted}
		}
	}
	if a.CompanyPositionID != nil {
		p, err := s.positions.GetByID(ctx, *a.CompanyPositionID)
		if err != nil {
			return nil, internal.NewInternalError("failed to get company position", err)
		}
		if p != nil {
			placement.Position = &Unit{ID: p.ID, Name: p.Name, TimeModified: p.TimeModified, ModifiedBy: p.ModifiedBy, Deleted: p.Deleted}
		}
	}
	return placement, nil
}
