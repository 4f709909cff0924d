package validator

import (
	"fmt"

	"tenniscourts/internal/slots"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validator *validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)

	message := fmt.Sprintf("%%s must be a whole hour between %02d:00 and %02d:00", slots.OpenHour, slots.CloseHour-1)
	if err := v.Register("slot_start", validateSlotStart, message); err != nil {
		log.Fatal("Failed to register 'slot_start' validator", "error", err)
	}

	return &BookingValidator{validator: v}
}

// validateSlotStart accepts only the normalised "HH:MM" form of a grid slot.
func validateSlotStart(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	normalized, err := slots.NormalizeStartTime(value)
	return err == nil && normalized == value
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.validator.Struct(booking)
}
