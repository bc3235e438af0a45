package app

import (
	"fmt"

	"github.com/frahmantamala/company-directory/internal"
	appDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/app"
)

type App struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Active       int    `json:"active"`
	TimeModified int64  `json:"timemodified"`
	ModifiedBy   *int64 `json:"modifiedBy"`
	Deleted      bool   `json:"deleted"`
}

func FromDataModel(a *appDatamodel.App) *App {
	return &App{
		ID:           a.ID,
		Name:         a.Name,
		URL:          a.URL,
		Active:       a.Active,
		TimeModified: a.TimeModified,
		ModifiedBy:   a.ModifiedBy,
		Deleted:      a.Deleted,
	}
}

var (
	ErrAppNotFound    = internal.NewNotFoundError("App not found", internal.ErrCodeAppNotFound)
	ErrNoChanges      = internal.NewValidationError("No fields were updated", internal.ErrCodeNoChanges)
	ErrIDRequired     = internal.NewValidationError("The id is required", internal.ErrCodeRequiredField)
	ErrFetchIDMissing = internal.NewValidationError("The id is required to fetch an app", internal.ErrCodeRequiredField)
)

func errDuplicateName(name string) error {
	return internal.NewConflictError(fmt.Sprintf("The app with name '%s' already exists", name), internal.ErrCodeDuplicateName)
}

func activeFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
