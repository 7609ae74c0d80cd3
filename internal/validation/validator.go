// Package validation turns request and domain validation failures into
// field-scoped *apperrors.ValidationError values.
//
// Request DTOs are checked with go-playground/validator struct tags; domain
// inputs implement ozzo-validation's Validatable and are checked with ValidateRules.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/validator/v10"

	"github.com/YusovID/kanban-service/internal/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their JSON name so clients can map errors to inputs.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})

	err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}

		return strings.TrimSpace(field.String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidateStruct checks s against its `validate` tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	fields := make(map[string]string, len(validationErrors))

	for _, fe := range validationErrors {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}

		fields[fe.Field()] = message(fe)
	}

	return &apperrors.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}

		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}

		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("date has wrong format, use %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// ValidateRules runs v.Validate() and converts ozzo field errors.
func ValidateRules(v ozzo.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for name, fe := range fieldErrs {
		fields[name] = flatten(fe)
	}

	return &apperrors.ValidationError{Fields: fields}
}

// flatten renders nested ozzo errors (e.g. from validation.Each) as one line.
func flatten(err error) string {
	var nested ozzo.Errors
	if errors.As(err, &nested) {
		return nested.Error()
	}

	return err.Error()
}
