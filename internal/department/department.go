package department

import (
	"fmt"

	"github.com/frahmantamala/company-directory/internal"
	departmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/department"
)

type Department struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TimeModified int64  `json:"timemodified"`
	ModifiedBy   *int64 `json:"modifiedBy"`
	Deleted      bool   `json:"deleted"`
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:           d.ID,
		Name:         d.Name,
		TimeModified: d.TimeModified,
		ModifiedBy:   d.ModifiedBy,
		Deleted:      d.Deleted,
	}
}

var (
	ErrDepartmentNotFound = internal.NewNotFoundError("Department not found", internal.ErrCodeDepartmentMissing)
	ErrNoChanges          = internal.NewValidationError("No changes were made", internal.ErrCodeNoChanges)
	ErrIDRequired         = internal.NewValidationError("The id is required", internal.ErrCodeRequiredField)
)

func errDuplicateName(name string) error {
	return internal.NewConflictError(fmt.Sprintf("A department with name '%s' already exists", name), internal.ErrCodeDuplicateName)
}

func errAnotherWithName(name string) error {
	return internal.NewConflictError(fmt.Sprintf("Another department with name '%s' already exists", name), internal.ErrCodeDuplicateName)
}

// actor turns a caller id into the nullable modifiedBy column value.
func actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
