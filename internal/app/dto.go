package app

import (
	"strings"

	"github.com/frahmantamala/company-directory/internal/core/common/validation"
)

type CreateAppDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// Active defaults to true when nil.
	Active *bool `json:"active"`
}

func (d *CreateAppDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.URL = strings.TrimSpace(d.URL)
	if err := validation.ValidateRequired(
		validation.Named{Name: "name", Value: d.Name},
		validation.Named{Name: "url", Value: d.URL},
	); err != nil {
		return err
	}
	return nil
}

type UpdateAppDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	// Active is left unchanged when nil.
	Active *bool `json:"active"`
}

func (d *UpdateAppDTO) Validate() error {
	if d.ID <= 0 {
		return ErrIDRequired
	}
	d.Name = strings.TrimSpace(d.Name)
	d.URL = strings.TrimSpace(d.URL)
	if err := validation.ValidateRequired(
		validation.Named{Name: "name", Value: d.Name},
		validation.Named{Name: "url", Value: d.URL},
	); err != nil {
		return err
	}
	return nil
}
