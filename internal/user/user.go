package user

import (
	"fmt"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/assignment"
	userDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// User is the public projection of a users row. The password hash is
// never serialised.
type User struct {
	ID           int64            `json:"id"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	Firstname    string           `json:"firstname"`
	Lastname     string           `json:"lastname"`
	Password     string           `json:"-"`
	StartDate    int64            `json:"startdate"`
	TimeModified int64            `json:"timemodified"`
	ModifiedBy   *int64           `json:"modifiedBy"`
	Deleted      bool             `json:"deleted"`
	Department   *assignment.Unit `json:"department,omitempty"`
	Position     *assignment.Unit `json:"position,omitempty"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Password:     u.Password,
		StartDate:    u.StartDate,
		TimeModified: u.TimeModified,
		ModifiedBy:   u.ModifiedBy,
		Deleted:      u.Deleted,
	}
}

// WithPlacement sets the department and position of the user's active
// assignment. A nil placement leaves both empty.
func (u *User) WithPlacement(p *assignment.Placement) *User {
	if p != nil {
		u.Department = p.Department
		u.Position = p.Position
	}
	return u
}

var (
	ErrUserNotFound   = internal.ErrUserNotFound
	ErrIDRequired     = internal.NewValidationError("The id is required", internal.ErrCodeRequiredField)
	ErrFetchIDMissing = internal.NewValidationError("The id is required to fetch an user", internal.ErrCodeRequiredField)
	ErrSelfDelete     = internal.NewForbiddenError("You can't delete yourself", internal.ErrCodeSelfDelete)
	ErrAdminDelete    = internal.NewForbiddenError("You cannot delete an admin user", internal.ErrCodeAdminDelete)
)

func errDuplicate(field, value string) error {
	return internal.NewConflictError(fmt.Sprintf("A user with %s '%s' already exists", field, value), internal.ErrCodeDuplicateUser)
}

// BcryptHasher hashes and verifies passwords with bcrypt.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
