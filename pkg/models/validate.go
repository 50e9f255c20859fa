package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected before any request is sent.
var ErrValidation = errors.New("validation failed")

// ErrBadPayload marks a platform response that breaks its own contract.
var ErrBadPayload = errors.New("unexpected server payload")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v against its struct tags. The returned error wraps
// ErrValidation and names the first offending field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s %s", ErrValidation, fieldPath(fe.Namespace()), describe(fe))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// fieldPath drops the leading type name, including generic arguments such as
// Page[models.Content].
func fieldPath(namespace string) string {
	depth := 0
	for i, r := range namespace {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				return namespace[i+1:]
			}
		}
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "gte", "gt", "lte", "lt", "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}

// ValidateEach validates every element of a list payload.
func ValidateEach[T any](items []T) error {
	for i := range items {
		if err := Validate(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// BadPayload restates a validation failure of a decoded response as
// ErrBadPayload. The result no longer matches ErrValidation.
func BadPayload(err error) error {
	return fmt.Errorf("%w: %s", ErrBadPayload, strings.Replace(err.Error(), ErrValidation.Error()+": ", "", 1))
}
