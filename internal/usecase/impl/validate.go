// Package impl contains the implementation of the application's business logic.
package impl

import (
	"strings"

	domainerrors "market/internal/domain/errors"
	"market/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the struct tags of an input DTO and reports every
// failing field as ErrValidationFailed.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields = append(fields, fieldErr.Namespace()+" failed on "+fieldErr.Tag())
	}

	return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, "; ")), "invalid input")
}
