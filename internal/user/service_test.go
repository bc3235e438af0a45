package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/assignment"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"github.com/frahmantamala/company-directory/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type MockRepository struct {
	users      []*userDatamodel.User
	lastUpdate map[string]interface{}
	shouldFail bool
	failError  error
}

func (m *MockRepository) find(match func(*userDatamodel.User) bool) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if !u.Deleted && match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*userDatamodel.User
	for _, u := range m.users {
		if !u.Deleted {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.ID == id })
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.Username == username })
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.Email == email })
}

func (m *MockRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, u)
	return nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if m.shouldFail {
		return m.failError
	}
	m.lastUpdate = fields
	u, _ := m.GetByID(ctx, id)
	if u == nil {
		return nil
	}
	if v, ok := fields["username"].(string); ok {
		u.Username = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["firstname"].(string); ok {
		u.Firstname = v
	}
	if v, ok := fields["password"].(string); ok {
		u.Password = v
	}
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64, modifiedBy *int64, now int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	u, _ := m.GetByID(ctx, id)
	if u == nil {
		return 0, nil
	}
	u.Deleted = true
	u.ModifiedBy = modifiedBy
	return 1, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

type MockAdmins struct {
	admins map[int64]bool
}

func (m *MockAdmins) IsUserAdmin(ctx context.Context, userID int64) (bool, error) {
	return m.admins[userID], nil
}

type MockPlacements struct {
	placement *assignment.Placement
}

func (m *MockPlacements) PlacementForUser(ctx context.Context, userID int64) (*assignment.Placement, error) {
	return m.placement, nil
}

var _ = Describe("User Service", func() {
	var (
		repo       *MockRepository
		admins     *MockAdmins
		placements *MockPlacements
		hasher     *user.BcryptHasher
		service    *user.Service
		ctx        context.Context
	)

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			Username:  "jdoe",
			Email:     "jdoe@company.com",
			Firstname: "John",
			Lastname:  "Doe",
			Password:  "secret",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &MockRepository{}
		admins = &MockAdmins{admins: map[int64]bool{}}
		placements = &MockPlacements{}
		hasher = user.NewBcryptHasher(4)
		service = user.NewService(repo, user.ServiceOptions{
			Admins:     admins,
			Placements: placements,
			Hasher:     hasher,
		}, logger)
	})

	Describe("CreateUser", func() {
		It("should hash the password and stamp the start date", func() {
			created, err := service.CreateUser(ctx, validDTO(), 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.StartDate).To(BeNumerically(">", 0))
			Expect(created.StartDate).To(Equal(created.TimeModified))
			Expect(*created.ModifiedBy).To(Equal(int64(9)))

			stored := repo.users[0]
			Expect(stored.Password).NotTo(Equal("secret"))
			Expect(hasher.Verify(stored.Password, "secret")).To(BeTrue())
		})

		It("should leave modifiedBy empty for self registration", func() {
			created, err := service.CreateUser(ctx, validDTO(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ModifiedBy).To(BeNil())
		})

		It("should report the first missing field", func() {
			dto := validDTO()
			dto.Email = ""
			dto.Firstname = ""
			_, err := service.CreateUser(ctx, dto, 0)
			Expect(err).To(MatchError("The field 'email' is required"))
		})

		It("should only accept corporate emails", func() {
			dto := validDTO()
			dto.Email = "jdoe@gmail.com"
			_, err := service.CreateUser(ctx, dto, 0)
			Expect(err).To(MatchError("We only allow emails with corporative extension @company.com"))
		})

		It("should reject duplicate usernames and emails", func() {
			_, err := service.CreateUser(ctx, validDTO(), 0)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(ctx, validDTO(), 0)
			Expect(err).To(MatchError("A user with username 'jdoe' already exists"))

			dto := validDTO()
			dto.Username = "other"
			_, err = service.CreateUser(ctx, dto, 0)
			Expect(err).To(MatchError("A user with email 'jdoe@company.com' already exists"))
			Expect(repo.users).To(HaveLen(1))
		})
	})

	Describe("GetUser", func() {
		It("should attach the current placement", func() {
			_, err := service.CreateUser(ctx, validDTO(), 0)
			Expect(err).NotTo(HaveOccurred())
			placements.placement = &assignment.Placement{
				Department: &assignment.Unit{ID: 3, Name: "Engineering"},
			}

			u, err := service.GetUser(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Department.Name).To(Equal("Engineering"))
			Expect(u.Position).To(BeNil())

			body, err := json.Marshal(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).NotTo(ContainSubstring("password"))
		})

		It("should report missing users", func() {
			_, err := service.GetUser(ctx, 42)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("should wrap repository failures", func() {
			repo.SetShouldFail(true, errors.New("db down"))
			_, err := service.GetUser(ctx, 1)
			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("UpdateUser", func() {
		BeforeEach(func() {
			_, err := service.CreateUser(ctx, validDTO(), 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should only write supplied fields", func() {
			updated, err := service.UpdateUser(ctx, user.UpdateUserDTO{ID: 1, Firstname: "Johnny"}, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Firstname).To(Equal("Johnny"))
			Expect(updated.Username).To(Equal("jdoe"))
			Expect(repo.lastUpdate).To(HaveKey("firstname"))
			Expect(repo.lastUpdate).NotTo(HaveKey("username"))
			Expect(repo.lastUpdate).NotTo(HaveKey("password"))
		})

		It("should re-hash a new password", func() {
			_, err := service.UpdateUser(ctx, user.UpdateUserDTO{ID: 1, Password: "changed"}, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(hasher.Verify(repo.users[0].Password, "changed")).To(BeTrue())
		})

		It("should allow keeping the same username", func() {
			_, err := service.UpdateUser(ctx, user.UpdateUserDTO{ID: 1, Username: "jdoe"}, 9)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a username taken by someone else", func() {
			dto := validDTO()
			dto.Username = "other"
			dto.Email = "other@company.com"
			_, err := service.CreateUser(ctx, dto, 0)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateUser(ctx, user.UpdateUserDTO{ID: 2, Username: "jdoe"}, 9)
			Expect(internal.IsType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("should report missing users", func() {
			_, err := service.UpdateUser(ctx, user.UpdateUserDTO{ID: 42, Firstname: "X"}, 9)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("DeleteUser", func() {
		BeforeEach(func() {
			_, err := service.CreateUser(ctx, validDTO(), 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should soft-delete the user", func() {
			deleted, err := service.DeleteUser(ctx, 1, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())
			Expect(repo.users[0].Deleted).To(BeTrue())

			_, err = service.GetUser(ctx, 1)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("should refuse self deletion", func() {
			_, err := service.DeleteUser(ctx, 1, 1)
			Expect(err).To(MatchError(user.ErrSelfDelete))
		})

		It("should refuse to delete admins", func() {
			admins.admins[1] = true
			_, err := service.DeleteUser(ctx, 1, 9)
			Expect(err).To(MatchError(user.ErrAdminDelete))
			Expect(repo.users[0].Deleted).To(BeFalse())
		})
	})
})

var _ = Describe("UpdateUserDTO", func() {
	It("should require an id", func() {
		dto := user.UpdateUserDTO{}
		Expect(dto.Validate("@company.com")).To(MatchError(user.ErrIDRequired))
	})

	It("should only validate an email that is present", func() {
		dto := user.UpdateUserDTO{ID: 1, Firstname: "  Jane "}
		Expect(dto.Validate("@company.com")).To(Succeed())
		Expect(dto.Firstname).To(Equal("Jane"))

		dto.Email = "jane@elsewhere.org"
		Expect(dto.Validate("@company.com")).To(HaveOccurred())
	})
})
