package admin

import (
	"fmt"

	"github.com/frahmantamala/company-directory/internal"
)

// Added is the result of granting admin rights.
type Added struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
	Active   int    `json:"active"`
}

var (
	ErrUsernameRequired = internal.NewValidationError("The field 'username' is required for this operation", internal.ErrCodeRequiredField)
	ErrNotAdmin         = internal.NewForbiddenError("Your user is not an admin", internal.ErrCodeNotAdmin)
	ErrAlreadyAdmin     = internal.NewConflictError("This user is already an admin", internal.ErrCodeAlreadyAdmin)
	ErrLastAdmin        = internal.NewForbiddenError("You cannot remove the last admin", internal.ErrCodeLastAdmin)
)

func errUserNotFound(username string) error {
	return internal.NewNotFoundError(fmt.Sprintf("User '%s' not found", username), internal.ErrCodeUserNotFound)
}

func errNotAnAdmin(username string) error {
	return internal.NewNotFoundError(fmt.Sprintf("User '%s' is not an admin", username), internal.ErrCodeNotAdmin)
}

func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
