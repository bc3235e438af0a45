package companyposition

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	positionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/companyposition"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*positionDatamodel.CompanyPosition, error)
	GetByID(ctx context.Context, id int64) (*positionDatamodel.CompanyPosition, error)
	GetByName(ctx context.Context, name string) (*positionDatamodel.CompanyPosition, error)
	Create(ctx context.Context, p *positionDatamodel.CompanyPosition) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	// Delete clears the company position from active assignments and soft-deletes
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

func (s *Service) ListPositions(ctx context.Context) ([]*CompanyPosition, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list company positions", "error", err)
		return nil, internal.NewInternalError("failed to list company positions", err)
	}

	positions := make([]*CompanyPosition, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, FromDataModel(row))
	}
	return positions, nil
}

func (s *Service) GetPosition(ctx context.Context, id int64) (*CompanyPosition, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get company position", "position_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get company position", err)
	}
	if row == nil {
		return nil, ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreatePosition(ctx context.Context, dto CreatePositionDTO, actorID int64) (*CompanyPosition, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check company position name", err)
	}
	if existing != nil {
		s.logger.Warn("duplicate company position name", "name", dto.Name)
		return nil, errDuplicateName(dto.Name)
	}

	row := &positionDatamodel.CompanyPosition{
		Name:         dto.Name,
		TimeModified: s.now().Unix(),
		ModifiedBy:   actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create company position", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create company position", err)
	}

	s.logger.Info("company position created", "position_id", row.ID, "name", row.Name, "actor_id", actorID)
	return s.GetPosition(ctx, row.ID)
}

func (s *Service) UpdatePosition(ctx context.Context, dto UpdatePositionDTO, actorID int64) (*CompanyPosition, error) {
	if dto.ID <= 0 {
		return nil, ErrIDRequired
	}

	current, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get company position", err)
	}
	if current == nil {
		return nil, ErrPositionNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	other, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check company position name", err)
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
		s.logger.Error("failed to update company position", "position_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("failed to update company position", err)
	}

	s.logger.Info("company position updated", "position_id", dto.ID, "actor_id", actorID)
	return s.GetPosition(ctx, dto.ID)
}

func (s *Service) DeletePosition(ctx context.Context, id, actorID int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get company position", err)
	}
	if current == nil {
		return ErrPositionNotFound
	}

	if err := s.repo.Delete(ctx, id, actor(actorID), s.now().Unix()); err != nil {
		s.logger.Error("failed to delete company position", "position_id", id, "error", err)
		return internal.NewInternalError("failed to delete company position", err)
	}

	s.logger.Info("company position deleted", "position_id", id, "actor_id", actorID)
	return nil
}
