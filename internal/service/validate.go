package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names, which is what clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateRequest checks msg against its validate tags and returns an
// InvalidArgument error describing the first failing field.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return connect.NewError(connect.CodeInvalidArgument, fieldError(verrs[0]))
	}
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// validateURL accepts an empty string, or an absolute URL.
func validateURL(field, value string) error {
	if value == "" {
		return nil
	}
	if err := validate.Var(value, "url"); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s must be a valid URL", field))
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "url":
		return fmt.Errorf("%s must be a valid URL", field)
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
