package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/pkg/dateutil"
)

const (
	// MaxPaidLeaves is the largest accepted paid-leave budget
	MaxPaidLeaves = 200
	// MaxNameLength caps holiday names, in characters
	MaxNameLength = 60
)

// ValidationError is a user-facing input error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HolidayInput carries holiday fields from a user. Nil fields are taken
// from the fallback holiday when patching.
type HolidayInput struct {
	Date    *string `json:"date"`
	Name    *string `json:"name"`
	Enabled *bool   `json:"enabled"`
}

type holidayFields struct {
	Date string `validate:"required,datekey"`
	Name string `validate:"required"`
}

type paidLeavesField struct {
	Value string `validate:"required,number"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		return dateutil.IsValidKey(fl.Field().String())
	})
	return v
}

// holidayMessages maps field and tag to the message shown to the user
var holidayMessages = map[string]string{
	"Date.required": "Date is required.",
	"Date.datekey":  "Date must be YYYY-MM-DD.",
	"Name.required": "Holiday name cannot be empty.",
}

// ValidateHoliday resolves input against fallback (may be nil) and checks
// that the date is a valid key within year and the name is not blank. The
// name is trimmed and capped at MaxNameLength characters; enabled defaults
// to true. The returned holiday has no ID.
func ValidateHoliday(year int, input HolidayInput, fallback *planner.Holiday) (planner.Holiday, error) {
	fields := holidayFields{}
	enabled := true

	if fallback != nil {
		fields.Date = fallback.Date
		fields.Name = fallback.Name
		enabled = fallback.Enabled
	}
	if input.Date != nil {
		fields.Date = strings.TrimSpace(*input.Date)
	}
	if input.Name != nil {
		fields.Name = *input.Name
	}
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	fields.Name = strings.TrimSpace(fields.Name)

	if err := validate.Struct(fields); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return planner.Holiday{}, &ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: holidayMessages[fe.Field()+"."+fe.Tag()],
			}
		}
		return planner.Holiday{}, fmt.Errorf("failed to validate holiday: %w", err)
	}

	if !strings.HasPrefix(fields.Date, fmt.Sprintf("%04d-", year)) {
		return planner.Holiday{}, &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("Date must be within %d.", year),
		}
	}

	name := fields.Name
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}

	return planner.Holiday{Date: fields.Date, Name: name, Enabled: enabled}, nil
}

// ValidatePaidLeaves parses a user-entered paid-leave budget: digits only,
// at most MaxPaidLeaves.
func ValidatePaidLeaves(raw string) (int, error) {
	field := paidLeavesField{Value: strings.TrimSpace(raw)}

	if err := validate.Struct(field); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "required" {
			return 0, &ValidationError{Field: "paid_leaves", Message: "Paid leaves cannot be empty."}
		}
		return 0, &ValidationError{Field: "paid_leaves", Message: "Paid leaves must be a number."}
	}

	exceeded := &ValidationError{
		Field:   "paid_leaves",
		Message: fmt.Sprintf("Paid leaves cannot exceed %d days.", MaxPaidLeaves),
	}

	// digits only, so a parse error can only be an overflow
	n, err := strconv.Atoi(field.Value)
	if err != nil {
		return 0, exceeded
	}
	if err := validate.Var(n, fmt.Sprintf("lte=%d", MaxPaidLeaves)); err != nil {
		return 0, exceeded
	}
	return n, nil
}
