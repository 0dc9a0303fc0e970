// Package impl contains the implementation of the application's business logic.
package impl

import (
	"fmt"
	"strings"

	apperrors "gameplays/internal/domain/errors"
	"gameplays/internal/domain/service"
	"gameplays/internal/errors"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all services; validator.Validate is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessage renders one validation failure with a generic field-name
// substitution, so a single template serves every field.
func fieldMessage(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// checkInput validates input and surfaces each field failure individually
// through the notifier. Returns the validation catalog error when any
// field fails.
func checkInput(input any, notifier service.Notifier) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate input")
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		msg := fieldMessage(fieldErr)
		messages = append(messages, msg)
		notifier.Error(msg)
	}

	return apperrors.ErrValidationFailed.WithDetails(strings.Join(messages, "; "))
}

// surfaceServerFieldErrors notifies each field-specific message the backend
// returned on a validation rejection. Returns true when any were surfaced.
func surfaceServerFieldErrors(err error, notifier service.Notifier) bool {
	var statusErr *apperrors.StatusError
	if !errors.As(err, &statusErr) || len(statusErr.Body.Errors) == 0 {
		return false
	}

	for field, message := range statusErr.Body.Errors {
		notifier.Error(fmt.Sprintf("%s: %s", strings.ToLower(field), message))
	}

	return true
}
