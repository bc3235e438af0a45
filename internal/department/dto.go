package department

import (
	"strings"

	"github.com/frahmantamala/company-directory/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name string `json:"name"`
}

func (d *CreateDepartmentDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if err := validation.ValidateRequired(validation.Named{Name: "name", Value: d.Name}); err != nil {
		return err
	}
	return nil
}

type UpdateDepartmentDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (d *UpdateDepartmentDTO) Validate() error {
	if d.ID <= 0 {
		return ErrIDRequired
	}
	d.Name = strings.TrimSpace(d.Name)
	if err := validation.ValidateRequired(validation.Named{Name: "name", Value: d.Name}); err != nil {
		return err
	}
	return nil
}
