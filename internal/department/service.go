package department

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	departmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	// Delete clears the department from active assignments and soft-deletes
	// it in one transaction.
	Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}
	return departments, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return nil, ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateDepartment(ctx context.Context, dto CreateDepartmentDTO, actorID int64) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check department name", err)
	}
	if existing != nil {
		s.logger.Warn("duplicate department name", "name", dto.Name)
		return nil, errDuplicateName(dto.Name)
	}

	row := &departmentDatamodel.Department{
		Name:         dto.Name,
		TimeModified: s.now().Unix(),
		ModifiedBy:   actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create department", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name, "actor_id", actorID)
	return s.GetDepartment(ctx, row.ID)
}

func (s *Service) UpdateDepartment(ctx context.Context, dto UpdateDepartmentDTO, actorID int64) (*Department, error) {
	if dto.ID <= 0 {
		return nil, ErrIDRequired
	}

	current, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if current == nil {
		return nil, ErrDepartmentNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	other, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check department name", err)
	}
	if other != nil && other.ID != dto.ID {
		return nil, errAnotherWithName(dto.Name)
	}
	if current.Name == dto.Name {
		return nil, ErrNoChanges
	}

	fields := map[string]interface{}{
		"name":         dto.Name,
		"timemodified": s.now().Unix(),
		"modifiedby":   actor(actorID),
	}
	if err := s.repo.Update(ctx, dto.ID, fields); err != nil {
		s.logger.Error("failed to update department", "department_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("failed to update department", err)
	}

	s.logger.Info("department updated", "department_id", dto.ID, "actor_id", actorID)
	return s.GetDepartment(ctx, dto.ID)
}

func (s *Service) DeleteDepartment(ctx context.Context, id, actorID int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get department", err)
	}
	if current == nil {
		return ErrDepartmentNotFound
	}

	if err := s.repo.Delete(ctx, id, actor(actorID), s.now().Unix()); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id, "actor_id", actorID)
	return nil
}
