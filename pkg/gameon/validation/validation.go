// Package validation checks service inputs with go-playground/validator and
// reports failures as Validation errors keyed by JSON field name.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
	"github.com/gargrave/gameon-server/pkg/gameon/models"
)

// Validator wraps a configured validator.Validate. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns a Validation error with per-field details.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Internal("validate input", err)
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = message(fe)
	}
	return errors.ValidationWithDetails("validation failed", details)
}

// Date checks that s is a calendar date in models.DateLayout.
func Date(s string) error {
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return errors.ValidationWithDetails("invalid date", map[string]string{
			"date": "must be a date formatted YYYY-MM-DD",
		})
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return "must not be blank"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	case "gt":
		return "must be greater than " + fe.Param()
	case "required_without":
		return "is required when " + fe.Param() + " is missing"
	default:
		return "is invalid"
	}
}
