package companyposition

import (
	"fmt"

	"github.com/frahmantamala/company-directory/internal"
	positionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/companyposition"
)

type CompanyPosition struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TimeModified int64  `json:"timemodified"`
	ModifiedBy   *int64 `json:"modifiedBy"`
	Deleted      bool   `json:"deleted"`
}

func FromDataModel(p *positionDatamodel.CompanyPosition) *CompanyPosition {
	return &CompanyPosition{
		ID:           p.ID,
		Name:         p.Name,
		TimeModified: p.TimeModified,
		ModifiedBy:   p.ModifiedBy,
		Deleted:      p.Deleted,
	}
}

var (
	ErrPositionNotFound = internal.NewNotFoundError("Company position not found", internal.ErrCodePositionMissing)
	ErrNoChanges        = internal.NewValidationError("No changes were made", internal.ErrCodeNoChanges)
	ErrIDRequired       = internal.NewValidationError("The id is required", internal.ErrCodeRequiredField)
)

func errDuplicateName(name string) error {
	return internal.NewConflictError(fmt.Sprintf("A company position with name '%s' already exists", name), internal.ErrCodeDuplicateName)
}

func errAnotherWithName(name string) error {
	return internal.NewConflictError(fmt.Sprintf("Another company position with name '%s' already exists", name), internal.ErrCodeDuplicateName)
}

func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
