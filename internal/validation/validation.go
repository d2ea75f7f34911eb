package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	if err := validate.RegisterValidation("nonblank", validateNonBlank); err != nil {
		panic(fmt.Sprintf("failed to register nonblank validation: %v", err))
	}
	if err := validate.RegisterValidation("period", validatePeriod); err != nil {
		panic(fmt.Sprintf("failed to register period validation: %v", err))
	}
}

// Validate validates a struct using tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// ValidatePeriod validates a revenue period query value. Empty is allowed.
func ValidatePeriod(period string) error {
	return validate.Var(period, "omitempty,period")
}

// Custom validation functions

func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), unicode.IsSpace) != ""
}

var periods = map[string]struct{}{
	"week":    {},
	"month":   {},
	"quarter": {},
	"year":    {},
}

func validatePeriod(fl validator.FieldLevel) bool {
	_, ok := periods[fl.Field().String()]
	return ok
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string
	Error string
}

// FormatError formats a validation error into a human-readable message
func FormatError(err error) []ValidationError {
	var validationErrors []ValidationError

	if err == nil {
		return validationErrors
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			var message string

			switch e.Tag() {
			case "required":
				message = fmt.Sprintf("%s is required", e.Field())
			case "email":
				message = "Invalid email format"
			case "nonblank":
				message = fmt.Sprintf("%s must not be blank", e.Field())
			case "period":
				message = "Period must be one of week, month, quarter or year"
			case "datetime":
				message = fmt.Sprintf("%s must be a date (YYYY-MM-DD)", e.Field())
			case "min":
				message = fmt.Sprintf("%s must have at least %s entries", e.Field(), e.Param())
			default:
				message = fmt.Sprintf("Invalid value for %s", e.Field())
			}

			validationErrors = append(validationErrors, ValidationError{
				Field: strings.ToLower(e.Field()),
				Error: message,
			})
		}
	}

	return validationErrors
}

// HasTag reports whether err holds a field error for field with the given tag
func HasTag(err error, field, tag string) bool {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	for _, e := range errs {
		if e.Field() == field && e.Tag() == tag {
			return true
		}
	}
	return false
}
