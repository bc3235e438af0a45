package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	appDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/app"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*appDatamodel.App, error)
	GetByID(ctx context.Context, id int64) (*appDatamodel.App, error)
	GetByName(ctx context.Context, name string) (*appDatamodel.App, error)
	Create(ctx context.Context, a *appDatamodel.App) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	// Delete deactivates and soft-deletes the app.
	Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error)
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

func (s *Service) ListApps(ctx context.Context) ([]*App, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list apps", "error", err)
		return nil, internal.NewInternalError("failed to list apps", err)
	}

	apps := make([]*App, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, FromDataModel(row))
	}
	return apps, nil
}

func (s *Service) GetApp(ctx context.Context, id int64) (*App, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get app", "app_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get app", err)
	}
	if row == nil {
		return nil, ErrAppNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateApp(ctx context.Context, dto CreateAppDTO, actorID int64) (*App, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check app name", err)
	}
	if existing != nil {
		s.logger.Warn("duplicate app name", "name", dto.Name)
		return nil, errDuplicateName(dto.Name)
	}

	active := 1
	if dto.Active != nil {
		active = activeFlag(*dto.Active)
	}

	row := &appDatamodel.App{
		Name:         dto.Name,
		URL:          dto.URL,
		Active:       active,
		TimeModified: s.now().Unix(),
		ModifiedBy:   actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create app", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create app", err)
	}

	s.logger.Info("app created", "app_id", row.ID, "name", row.Name, "actor_id", actorID)
	return s.GetApp(ctx, row.ID)
}

func (s *Service) UpdateApp(ctx context.Context, dto UpdateAppDTO, actorID int64) (*App, error) {
	if dto.ID <= 0 {
		return nil, ErrIDRequired
	}

	current, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get app", err)
	}
	if current == nil {
		return nil, ErrAppNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	other, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check app name", err)
	}
	if other != nil && other.ID != dto.ID {
		return nil, errDuplicateName(dto.Name)
	}

	fields := map[string]interface{}{}
	if dto.Name != current.Name {
		fields["name"] = dto.Name
	}
	if dto.URL != current.URL {
		fields["url"] = dto.URL
	}
	if dto.Active != nil && activeFlag(*dto.Active) != current.Active {
		fields["active"] = activeFlag(*dto.Active)
	}
	if len(fields) == 0 {
		return nil, ErrNoChanges
	}
	fields["timemodified"] = s.now().Unix()
	fields["modifiedby"] = actor(actorID)

	if err := s.repo.Update(ctx, dto.ID, fields); err != nil {
		s.logger.Error("failed to update app", "app_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("failed to update app", err)
	}

	s.logger.Info("app updated", "app_id", dto.ID, "actor_id", actorID)
	return s.GetApp(ctx, dto.ID)
}

func (s *Service) DeleteApp(ctx context.Context, id, actorID int64) (bool, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, internal.NewInternalError("failed to get app", err)
	}
	if current == nil {
		return false, ErrAppNotFound
	}

	affected, err := s.repo.Delete(ctx, id, actor(actorID), s.now().Unix())
	if err != nil {
		s.logger.Error("failed to delete app", "app_id", id, "error", err)
		return false, internal.NewInternalError("failed to delete app", err)
	}

	s.logger.Info("app deleted", "app_id", id, "actor_id", actorID)
	return affected > 0, nil
}
