// Package validate checks form input before it is sent to the backend.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("validation failed")

// Error lists the human-readable problems found in a form.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// First returns the first problem, for single-line status bars.
func First(err error) string {
	var ve *Error
	if errors.As(err, &ve) && len(ve.Messages) > 0 {
		return ve.Messages[0]
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// MinPasswordLength is the shortest password the backend accepts.
const MinPasswordLength = 8

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return strings.ToLower(f.Name)
	})
	val.RegisterValidation("password", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return StrongPassword(fl.Field().String())
	})
	val.RegisterValidation("role", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return domain.ValidRole(domain.Role(fl.Field().String()))
	})
	return val
}

// StrongPassword reports whether pw is long enough and mixes upper case,
// lower case and digits.
func StrongPassword(pw string) bool {
	if len([]rune(pw)) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &Error{Messages: msgs}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return field + " does not match"
	case "nefield":
		return field + " must differ from the current password"
	case "password":
		return fmt.Sprintf("%s must be at least %d characters with upper and lower case letters and a digit", field, MinPasswordLength)
	case "role":
		return field + " must be admin or employee"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
