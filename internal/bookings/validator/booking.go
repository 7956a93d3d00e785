package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/pricing"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate       *validator.Validate
	logger         *logger.Logger
	maxBookingDays int
}

func NewBookingValidator(log *logger.Logger, maxBookingDays int) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("e164_phone", validatePhone); err != nil {
		log.Fatal("Failed to register 'e164_phone' validator", "error", err)
	}

	return &BookingValidator{
		validate:       v,
		logger:         log,
		maxBookingDays: maxBookingDays,
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// Closed date interval: start and end may be the same day.
	if booking.EndDate.Before(booking.StartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not be before start_date",
			},
		}
	}

	if days := pricing.Days(booking.StartDate, booking.EndDate); days > v.maxBookingDays {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: fmt.Sprintf("booking length (%d days) exceeds the maximum of %d days", days, v.maxBookingDays),
			},
		}
	}

	if !phoneRegex.MatchString(booking.Phone) {
		return ValidationErrors{
			ValidationError{
				Field:   "Phone",
				Message: "phone must be in E.164 format (e.g., +380501234567)",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
