package user

import (
	"strings"

	"github.com/frahmantamala/company-directory/internal/core/common/validation"
)

type CreateUserDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
}

// Validate checks the required fields in order, then the corporate domain
// of the email.
func (d *CreateUserDTO) Validate(emailDomain string) error {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
	d.Firstname = strings.TrimSpace(d.Firstname)
	d.Lastname = strings.TrimSpace(d.Lastname)

	if err := validation.ValidateRequired(
		validation.Named{Name: "username", Value: d.Username},
		validation.Named{Name: "email", Value: d.Email},
		validation.Named{Name: "firstname", Value: d.Firstname},
		validation.Named{Name: "password", Value: d.Password},
	); err != nil {
		return err
	}
	if err := validation.ValidateCorporateEmail(d.Email, emailDomain); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO carries a partial update. Empty fields are left unchanged.
type UpdateUserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
}

func (d *UpdateUserDTO) Validate(emailDomain string) error {
	if d.ID <= 0 {
		return ErrIDRequired
	}
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
	d.Firstname = strings.TrimSpace(d.Firstname)
	d.Lastname = strings.TrimSpace(d.Lastname)

	if d.Email != "" {
		if err := validation.ValidateCorporateEmail(d.Email, emailDomain); err != nil {
			return err
		}
	}
	return nil
}
