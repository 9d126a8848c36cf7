// Package validate checks request schemas with go-playground/validator and
// converts failures into field-level apperr violations.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/visitor-register/internal/apperr"
)

// contactRegex matches a contact number: exactly 10 ASCII digits.
var contactRegex = regexp.MustCompile(`^[0-9]{10}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so violations match the request body.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := val.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return Contact(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return val
}

// Contact reports whether s is a valid contact number.
func Contact(s string) bool {
	return contactRegex.MatchString(s)
}

// Struct validates s against its `validate` tags. It returns nil or a
// validation *apperr.Error listing every violated field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation("Validation failed: " + err.Error())
	}

	fields := make([]apperr.FieldViolation, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apperr.FieldViolation{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return apperr.Validation("", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "contact":
		return "must be exactly 10 digits"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}
