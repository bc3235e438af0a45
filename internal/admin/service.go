package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	adminDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/admin"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/core/events"
)

type RepositoryAPI interface {
	// AnyActive reports whether at least one active, non-deleted row exists.
	AnyActive(ctx context.Context) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	IsUserAdmin(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, a *adminDatamodel.Admin) error
	// RemoveForUser deactivates and soft-deletes every admin row of the user.
	RemoveForUser(ctx context.Context, userID int64, modifiedBy *int64, now int64) (int64, error)
}

// UserLookup finds non-deleted users.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserLookup
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, users UserLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// IsAdminSet is false until the first admin has been added. While it is
// false anyone holding a token may bootstrap an admin.
func (s *Service) IsAdminSet(ctx context.Context) (bool, error) {
	set, err := s.repo.AnyActive(ctx)
	if err != nil {
		s.logger.Error("failed to check admins", "error", err)
		return false, internal.NewInternalError("failed to check admins", err)
	}
	return set, nil
}

func (s *Service) IsUserAdmin(ctx context.Context, userID int64) (bool, error) {
	isAdmin, err := s.repo.IsUserAdmin(ctx, userID)
	if err != nil {
		s.logger.Error("failed to check admin", "user_id", userID, "error", err)
		return false, internal.NewInternalError("failed to check admin", err)
	}
	return isAdmin, nil
}

func (s *Service) IsThisUserAdmin(ctx context.Context, username string) (bool, error) {
	u, err := s.userByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return s.IsUserAdmin(ctx, u.ID)
}

// AddAdminByUsername inserts an admin row for the user. It does not check
// who is asking; see AddAdminAs.
func (s *Service) AddAdminByUsername(ctx context.Context, username string, actorID int64) (int64, error) {
	u, err := s.userByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	row := &adminDatamodel.Admin{
		UserID:       u.ID,
		Active:       1,
		TimeModified: s.now().Unix(),
		ModifiedBy:   actor(actorID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to add admin", "username", username, "error", err)
		return 0, internal.NewInternalError("failed to add admin", err)
	}

	s.logger.Info("admin added", "admin_id", row.ID, "user_id", u.ID, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeAdminAdded, actorID, u.ID,
		map[string]interface{}{"admin_id": row.ID}))
	return row.ID, nil
}

// AddAdminAs grants admin rights on behalf of actorID. Once an admin
// exists only admins may add more.
func (s *Service) AddAdminAs(ctx context.Context, username string, actorID int64) (*Added, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if err := s.requireAdminOnceSet(ctx, actorID); err != nil {
		return nil, err
	}

	already, err := s.IsThisUserAdmin(ctx, username)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyAdmin
	}

	id, err := s.AddAdminByUsername(ctx, username, actorID)
	if err != nil {
		return nil, err
	}
	return &Added{AdminID: id, Username: username, Active: 1}, nil
}

// RemoveAdmin revokes admin rights from username. Only admins may do it
// and the last active admin cannot remove themself.
func (s *Service) RemoveAdmin(ctx context.Context, username string, actorID int64) (bool, error) {
	if username == "" {
		return false, ErrUsernameRequired
	}

	actorIsAdmin, err := s.IsUserAdmin(ctx, actorID)
	if err != nil {
		return false, err
	}
	if !actorIsAdmin {
		s.logger.Warn("non-admin tried to remove an admin", "actor_id", actorID, "username", username)
		return false, ErrNotAdmin
	}

	target, err := s.userByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	isAdmin, err := s.IsUserAdmin(ctx, target.ID)
	if err != nil {
		return false, err
	}
	if !isAdmin {
		return false, errNotAnAdmin(username)
	}

	if target.ID == actorID {
		count, err := s.repo.CountActive(ctx)
		if err != nil {
			return false, internal.NewInternalError("failed to count admins", err)
		}
		if count <= 1 {
			return false, ErrLastAdmin
		}
	}

	affected, err := s.repo.RemoveForUser(ctx, target.ID, actor(actorID), s.now().Unix())
	if err != nil {
		s.logger.Error("failed to remove admin", "user_id", target.ID, "error", err)
		return false, internal.NewInternalError("failed to remove admin", err)
	}

	s.logger.Info("admin removed", "user_id", target.ID, "actor_id", actorID)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeAdminRemoved, actorID, target.ID, nil))
	return affected > 0, nil
}

func (s *Service) requireAdminOnceSet(ctx context.Context, actorID int64) error {
	set, err := s.IsAdminSet(ctx)
	if err != nil || !set {
		return err
	}

	actorIsAdmin, err := s.IsUserAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !actorIsAdmin {
		s.logger.Warn("non-admin tried to add an admin", "actor_id", actorID)
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) userByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, errUserNotFound(username)
	}
	return u, nil
}
