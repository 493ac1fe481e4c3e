package repository

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/classroom-api/internal/errs"
	"github.com/aanand-mishra/classroom-api/internal/types"
)

const (
	msgRequired = "First name, last name, and email are required"
	msgAgeRange = "Age must be between 16 and 100"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// age_range accepts 0 as "not provided"; anything else must lie in
	// [16, 100].
	v.RegisterValidation("age_range", func(fl validator.FieldLevel) bool {
		age := fl.Field().Int()
		return age == 0 || (age >= 16 && age <= 100)
	})

	// Let tags on Optional[int] fields see the wrapped value. An unset or
	// null Optional yields nil, which omitempty skips.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		opt, ok := field.Interface().(types.Optional[int])
		if !ok || opt.Value == nil {
			return nil
		}
		return *opt.Value
	}, types.Optional[int]{})

	return v
}

// checkInput runs the struct tags on in and converts the first failure
// into a validation error. Missing required fields win over a bad age,
// whatever order the fields are declared in.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Wrap(errs.ErrValidation, "Invalid input", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return errs.E(errs.ErrValidation, msgRequired)
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "age_range" {
			return errs.E(errs.ErrValidation, msgAgeRange)
		}
	}

	return errs.Wrap(errs.ErrValidation, "Invalid input", err)
}
