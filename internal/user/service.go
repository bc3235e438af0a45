package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/assignment"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/core/events"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error)
}

type AdminChecker interface {
	IsUserAdmin(ctx context.Context, userID int64) (bool, error)
}

type PlacementFinder interface {
	PlacementForUser(ctx context.Context, userID int64) (*assignment.Placement, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo        RepositoryAPI
	admins      AdminChecker
	placements  PlacementFinder
	hasher      PasswordHasher
	emailDomain string
	events      events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

type ServiceOptions struct {
	Admins      AdminChecker
	Placements  PlacementFinder
	Hasher      PasswordHasher
	EmailDomain string
	Events      events.Publisher
}

func NewService(repo RepositoryAPI, opts ServiceOptions, logger *slog.Logger) *Service {
	if opts.Hasher == nil {
		opts.Hasher = NewBcryptHasher(0)
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = internal.DefaultCompanyEmailDomain
	}
	return &Service{
		repo:        repo,
		admins:      opts.Admins,
		placements:  opts.Placements,
		hasher:      opts.Hasher,
		emailDomain: opts.EmailDomain,
		events:      opts.Events,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

// GetUser returns the user with the department and position of the active
// assignment resolved.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}

	u := FromDataModel(row)
	if s.placements == nil {
		return u, nil
	}
	placement, err := s.placements.PlacementForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.WithPlacement(placement), nil
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO, actorID int64) (*User, error) {
	if err := dto.Validate(s.emailDomain); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, 0, dto.Username, dto.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := s.now().Unix()
	row := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		Firstname:    dto.Firstname,
		Lastname:     dto.Lastname,
		Password:     hashed,
		StartDate:    now,
		TimeModified: now,
		ModifiedBy:   actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "username", row.Username, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeUserCreated, actorID, row.ID,
		map[string]interface{}{"username": row.Username}))

	return s.fetch(ctx, row.ID)
}

// UpdateUser writes the non-empty fields of dto. The password is re-hashed
// only when a new one is supplied.
func (s *Service) UpdateUser(ctx context.Context, dto UpdateUserDTO, actorID int64) (*User, error) {
	if dto.ID <= 0 {
		return nil, ErrIDRequired
	}

	current, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	if err := dto.Validate(s.emailDomain); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, dto.ID, dto.Username, dto.Email); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"timemodified": s.now().Unix(),
		"modifiedby":   actor(actorID),
	}
	setIfPresent(fields, "username", dto.Username)
	setIfPresent(fields, "email", dto.Email)
	setIfPresent(fields, "firstname", dto.Firstname)
	setIfPresent(fields, "lastname", dto.Lastname)
	if dto.Password != "" {
		hashed, err := s.hasher.Hash(dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		fields["password"] = hashed
	}

	if err := s.repo.Update(ctx, dto.ID, fields); err != nil {
		s.logger.Error("failed to update user", "user_id", dto.ID, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", dto.ID, "actor_id", actorID)
	return s.fetch(ctx, dto.ID)
}

// DeleteUser soft-deletes a user. Nobody may delete themself, and admins
// cannot be deleted at all.
func (s *Service) DeleteUser(ctx context.Context, id, actorID int64) (bool, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, internal.NewInternalError("failed to get user", err)
	}
	if current == nil {
		return false, ErrUserNotFound
	}

	if current.ID == actorID {
		s.logger.Warn("user tried to delete themself", "user_id", id)
		return false, ErrSelfDelete
	}

	if s.admins != nil {
		isAdmin, err := s.admins.IsUserAdmin(ctx, id)
		if err != nil {
			return false, err
		}
		if isAdmin {
			s.logger.Warn("refused to delete admin user", "user_id", id, "actor_id", actorID)
			return false, ErrAdminDelete
		}
	}

	affected, err := s.repo.Delete(ctx, id, actor(actorID), s.now().Unix())
	if err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return false, internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeUserDeleted, actorID, id, nil))
	return affected > 0, nil
}

func (s *Service) ensureUnique(ctx context.Context, selfID int64, username, email string) error {
	if username != "" {
		other, err := s.repo.GetByUsername(ctx, username)
		if err != nil {
			return internal.NewInternalError("failed to check username", err)
		}
		if other != nil && other.ID != selfID {
			s.logger.Warn("duplicate username", "username", username)
			return errDuplicate("username", username)
		}
	}
	if email != "" {
		other, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return internal.NewInternalError("failed to check email", err)
		}
		if other != nil && other.ID != selfID {
			s.logger.Warn("duplicate email", "email", email)
			return errDuplicate("email", email)
		}
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func setIfPresent(fields map[string]interface{}, column, value string) {
	if value != "" {
		fields[column] = value
	}
}
