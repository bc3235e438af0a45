package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/auth"
	sessionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

const testSecret = "auth-suite-secret-0123456789"

type MockUserRepository struct {
	users      map[string]*userDatamodel.User
	shouldFail bool
	failError  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*userDatamodel.User)}
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[username], nil
}

func (m *MockUserRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

type MockSessionRepository struct {
	sessions   map[string]*sessionDatamodel.Session
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*sessionDatamodel.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, s *sessionDatamodel.Session) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	s.ID = m.nextID
	m.sessions[s.JWTToken] = s
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*sessionDatamodel.Session, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.sessions[token], nil
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	if _, ok := m.sessions[token]; !ok {
		return 0, nil
	}
	delete(m.sessions, token)
	return 1, nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var removed int64
	for token, s := range m.sessions {
		if s.ExpiresAt < now {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (m *MockSessionRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("Auth Service", func() {
	var (
		users    *MockUserRepository
		sessions *MockSessionRepository
		tokens   *auth.JWTTokenGenerator
		service  *auth.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		hasher := user.NewBcryptHasher(4)

		hashed, err := hasher.Hash("secret")
		Expect(err).NotTo(HaveOccurred())

		users = NewMockUserRepository()
		users.users["jdoe"] = &userDatamodel.User{ID: 7, Username: "jdoe", Email: "jdoe@company.com", Password: hashed}
		sessions = NewMockSessionRepository()
		tokens = auth.NewJWTTokenGenerator(testSecret, auth.SessionDuration)
		service = auth.NewService(users, sessions, tokens, hasher, nil, logger)
	})

	Describe("Login", func() {
		It("should issue a token valid for one hour and persist the session", func() {
			before := time.Now().Unix()
			result, err := service.Login(ctx, "jdoe", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.User.ID).To(Equal(int64(7)))

			s := sessions.sessions[result.Token]
			Expect(s).NotTo(BeNil())
			Expect(s.UserID).To(Equal(int64(7)))
			Expect(s.ExpiresAt - s.CreatedAt).To(Equal(int64(3600)))
			Expect(result.Expires).To(Equal(s.ExpiresAt))
			Expect(s.CreatedAt).To(BeNumerically(">=", before))
		})

		It("should not serialise the password hash", func() {
			result, err := service.Login(ctx, "jdoe", "secret")
			Expect(err).NotTo(HaveOccurred())
			body, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).NotTo(ContainSubstring("password"))
			Expect(string(body)).To(ContainSubstring(`"expires"`))
		})

		It("should reject missing credentials", func() {
			_, err := service.Login(ctx, "", "secret")
			Expect(err).To(MatchError(auth.ErrCredentialsRequired))
		})

		It("should report unknown users as not found", func() {
			_, err := service.Login(ctx, "ghost", "secret")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})

		It("should reject a wrong password", func() {
			_, err := service.Login(ctx, "jdoe", "wrong")
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
			Expect(sessions.sessions).To(BeEmpty())
		})

		It("should wrap session storage failures", func() {
			sessions.SetShouldFail(true, errors.New("disk full"))
			_, err := service.Login(ctx, "jdoe", "secret")
			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("ValidateTokenAndGetCurrentUser", func() {
		It("should resolve an open session to its user", func() {
			result, err := service.Login(ctx, "jdoe", "secret")
			Expect(err).NotTo(HaveOccurred())

			id, err := service.ValidateTokenAndGetCurrentUser(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(7)))
		})

		It("should require a token", func() {
			_, err := service.ValidateTokenAndGetCurrentUser(ctx, "")
			Expect(err).To(MatchError(internal.ErrTokenRequired))
		})

		It("should reject garbage", func() {
			_, err := service.ValidateTokenAndGetCurrentUser(ctx, "not-a-jwt")
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("should reject tokens signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("another-secret-0123456789", time.Hour)
			token, _, err := other.GenerateToken(7, "jdoe@company.com", time.Now())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateTokenAndGetCurrentUser(ctx, token)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("should treat a token without a session as expired", func() {
			token, _, err := tokens.GenerateToken(7, "jdoe@company.com", time.Now())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateTokenAndGetCurrentUser(ctx, token)
			Expect(err).To(MatchError(internal.ErrSessionExpired))
		})

		It("should treat a session past its expiry as expired", func() {
			token, _, err := tokens.GenerateToken(7, "jdoe@company.com", time.Now())
			Expect(err).NotTo(HaveOccurred())
			past := time.Now().Add(-time.Minute).Unix()
			sessions.sessions[token] = &sessionDatamodel.Session{ID: 1, UserID: 7, JWTToken: token, CreatedAt: past - 3600, ExpiresAt: past}

			_, err = service.ValidateTokenAndGetCurrentUser(ctx, token)
			Expect(err).To(MatchError(internal.ErrSessionExpired))
		})

		It("should reject a token whose own expiry has passed", func() {
			token, _, err := tokens.GenerateToken(7, "jdoe@company.com", time.Now().Add(-2*time.Hour))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateTokenAndGetCurrentUser(ctx, token)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("Logout", func() {
		It("should delete the session once", func() {
			result, err := service.Login(ctx, "jdoe", "secret")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Logout(ctx, result.Token)).To(Succeed())
			Expect(sessions.sessions).To(BeEmpty())

			err = service.Logout(ctx, result.Token)
			Expect(err).To(MatchError(internal.ErrSessionNotFound))
		})

		It("should require a token", func() {
			Expect(service.Logout(ctx, "")).To(MatchError(internal.ErrTokenRequired))
		})
	})

	Describe("PruneExpiredSessions", func() {
		It("should remove only expired sessions", func() {
			now := time.Now().Unix()
			sessions.sessions["old"] = &sessionDatamodel.Session{ID: 1, JWTToken: "old", ExpiresAt: now - 10}
			sessions.sessions["new"] = &sessionDatamodel.Session{ID: 2, JWTToken: "new", ExpiresAt: now + 3600}

			removed, err := service.PruneExpiredSessions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(int64(1)))
			Expect(sessions.sessions).To(HaveKey("new"))
		})
	})
})

var _ = Describe("JWTTokenGenerator", func() {
	It("should set sub, iat, exp and a unique jti", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, 0)
		issued := time.Unix(1700000000, 500)

		first, exp, err := gen.GenerateToken(9, "a@company.com", issued)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Unix()).To(Equal(int64(1700003600)))

		second, _, err := gen.GenerateToken(9, "a@company.com", issued)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).NotTo(Equal(first))
	})

	It("should round trip the subject of a live token", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, time.Hour)
		token, _, err := gen.GenerateToken(9, "a@company.com", time.Now())
		Expect(err).NotTo(HaveOccurred())

		claims, err := gen.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		id, err := claims.UserID()
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(9)))
		Expect(claims.Email).To(Equal("a@company.com"))
		Expect(claims.ID).NotTo(BeEmpty())
	})
})
