package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	sessionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/core/events"
	"github.com/frahmantamala/company-directory/internal/user"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *sessionDatamodel.Session) error
	GetByToken(ctx context.Context, token string) (*sessionDatamodel.Session, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type PasswordVerifier interface {
	Verify(hash, password string) bool
}

// Service issues tokens at login and resolves them back to users. A token
// is only honoured while its session row exists and has not expired.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
	verifier PasswordVerifier
	events   events.Publisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(users UserRepository, sessions SessionRepository, tokens TokenGenerator, verifier PasswordVerifier, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		verifier: verifier,
		events:   publisher,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		s.logger.Warn("login for unknown user", "username", username)
		return nil, internal.ErrUserNotFound
	}

	if !s.verifier.Verify(u.Password, password) {
		s.logger.Warn("login with wrong password", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	issuedAt := s.now().Truncate(time.Second)
	token, expiresAt, err := s.tokens.GenerateToken(u.ID, u.Email, issuedAt)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	session := &sessionDatamodel.Session{
		UserID:    u.ID,
		JWTToken:  token,
		CreatedAt: issuedAt.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to persist session", "user_id", u.ID, "error", err)
		return nil, internal.NewInternalError("failed to create session", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "expires_at", session.ExpiresAt)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeSessionOpened, u.ID, session.ID, nil))

	return &LoginResult{
		Token:   token,
		Expires: session.ExpiresAt,
		User:    user.FromDataModel(u),
	}, nil
}

// ValidateTokenAndGetCurrentUser returns the subject of a token whose
// session is still open.
func (s *Service) ValidateTokenAndGetCurrentUser(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, internal.ErrTokenRequired
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.logger.Debug("token rejected", "error", err)
		return 0, internal.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, internal.ErrInvalidToken
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		s.logger.Error("failed to load session", "user_id", userID, "error", err)
		return 0, internal.NewInternalError("failed to load session", err)
	}
	if session == nil || session.ExpiresAt < s.now().Unix() {
		return 0, internal.ErrSessionExpired
	}
	return userID, nil
}

// Logout hard-deletes the session of token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return internal.ErrTokenRequired
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return internal.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return internal.ErrSessionNotFound
	}

	if _, err := s.sessions.DeleteByToken(ctx, token); err != nil {
		s.logger.Error("failed to delete session", "session_id", session.ID, "error", err)
		return internal.NewInternalError("failed to delete session", err)
	}

	s.logger.Info("user logged out", "user_id", session.UserID)
	events.Emit(ctx, s.events, s.logger, events.NewDirectoryEvent(events.EventTypeSessionClosed, session.UserID, session.ID, nil))
	return nil
}

// PruneExpiredSessions removes sessions whose expiry has passed.
func (s *Service) PruneExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now().Unix())
	if err != nil {
		s.logger.Error("failed to prune sessions", "error", err)
		return 0, internal.NewInternalError("failed to prune sessions", err)
	}
	if removed > 0 {
		s.logger.Info("expired sessions pruned", "count", removed)
	}
	return removed, nil
}
