package validation

import (
	"fmt"
	"regexp"
	"strings"

	errors "github.com/frahmantamala/company-directory/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case int:
			missing = v == 0
		}
		if missing {
			return errors.NewRequiredFieldError(fv.FieldName)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) > max {
				message := fmt.Sprintf("The field '%s' must not exceed %d characters", fv.FieldName, max)
				return errors.NewValidationError(message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// emailPattern accepts the common local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)

// CorporateEmail requires a well formed address ending in domain, for
// example "@company.com". Empty values are left to Required.
func (fv *FieldValidator) CorporateEmail(domain string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		return ValidateCorporateEmail(v, domain)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every rule and reports the first failure as the message,
// with all failures attached as details.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var (
		validationErrors []errors.ValidationError
		first            *errors.AppError
	)

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if first == nil {
				first = appErr
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
			// later rules on the same field usually repeat the failure
			break
		}
	}

	if first == nil {
		return nil
	}
	return errors.NewValidationError(first.Message, first.Code).
		WithDetails(errors.ValidationErrors{Errors: validationErrors})
}

func ValidateCorporateEmail(email, domain string) *errors.AppError {
	if !emailPattern.MatchString(email) {
		return errors.NewValidationError("Email has an invalid format", errors.ErrCodeInvalidEmail)
	}
	if domain != "" && !strings.HasSuffix(strings.ToLower(email), strings.ToLower(domain)) {
		return errors.NewValidationError(
			fmt.Sprintf("We only allow emails with corporative extension %s", domain),
			errors.ErrCodeEmailDomain,
		)
	}
	return nil
}

// ValidateRequired checks the named values in order and reports the first
// missing one.
func ValidateRequired(fields ...Named) *errors.AppError {
	validator := NewValidator()
	for _, f := range fields {
		validator.Field(f.Name, f.Value).Required()
	}
	return validator.Validate()
}

// Named pairs a field name with its value for ValidateRequired.
type Named struct {
	Name  string
	Value interface{}
}
