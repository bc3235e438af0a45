package companyposition

import (
	"strings"

	"github.com/frahmantamala/company-directory/internal/core/common/validation"
)

type CreatePositionDTO struct {
	Name string `json:"name"`
}

func (d *CreatePositionDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if err := validation.ValidateRequired(validation.Named{Name: "name", Value: d.Name}); err != nil {
		return err
	}
	return nil
}

type UpdatePositionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (d *UpdatePositionDTO) Validate() error {
	if d.ID <= 0 {
		return ErrIDRequired
	}
	d.Name = strings.TrimSpace(d.Name)
	if err := validation.ValidateRequired(validation.Named{Name: "name", Value: d.Name}); err != nil {
		return err
	}
	return nil
}
