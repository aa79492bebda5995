package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var passwordCharset = regexp.MustCompile(`^[a-zA-Z\d]{8,25}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return validPassword(fl.Field().String())
	})
	return v
}

// validPassword requires 8-25 letters or digits with at least one lower
// case letter, one upper case letter and one digit.
func validPassword(p string) bool {
	if !passwordCharset.MatchString(p) {
		return false
	}
	return strings.IndexFunc(p, unicode.IsLower) >= 0 &&
		strings.IndexFunc(p, unicode.IsUpper) >= 0 &&
		strings.IndexFunc(p, unicode.IsDigit) >= 0
}

// validateStruct runs v over s and turns the first failure into an
// ErrInvalidInput error with a readable message.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return newError(ErrInvalidInput, fieldMessage(fieldErrs[0]))
	}
	return &Error{Kind: ErrInvalidInput, Message: "invalid input", Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "password":
		return fmt.Sprintf("%q must be 8-25 letters or digits with at least one lowercase letter, one uppercase letter and one digit", field)
	case "eqfield":
		return fmt.Sprintf("%q must match %q", field, lowerFirst(fe.Param()))
	case "uuid":
		return fmt.Sprintf("%q must be a valid id", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
