package validator

import (
	"errors"
	"testing"

	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() *model.Booking {
	return &model.Booking{
		CustomerName: "Ana Torres",
		Email:        "ana@example.com",
		Phone:        "987654321",
		BookingDate:  "2024-06-01",
		StartTime:    "10:00",
		CourtNumber:  1,
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(logger.NewNop())

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{"valid", func(b *model.Booking) {}, ""},
		{"missing name", func(b *model.Booking) { b.CustomerName = "" }, "customer_name"},
		{"bad email", func(b *model.Booking) { b.Email = "not-an-email" }, "email"},
		{"short phone", func(b *model.Booking) { b.Phone = "12345" }, "phone"},
		{"bad date", func(b *model.Booking) { b.BookingDate = "01/06/2024" }, "booking_date"},
		{"half hour", func(b *model.Booking) { b.StartTime = "10:30" }, "start_time"},
		{"before opening", func(b *model.Booking) { b.StartTime = "05:00" }, "start_time"},
		{"at closing", func(b *model.Booking) { b.StartTime = "22:00" }, "start_time"},
		{"unnormalised time", func(b *model.Booking) { b.StartTime = "10:00:00" }, "start_time"},
		{"court zero", func(b *model.Booking) { b.CourtNumber = 0 }, "court_number"},
		{"court four", func(b *model.Booking) { b.CourtNumber = 4 }, "court_number"},
		{"long comment", func(b *model.Booking) {
			long := make([]byte, 201)
			for i := range long {
				long[i] = 'x'
			}
			b.AdminComment = string(long)
		}, "admin_comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			err := v.Validate(b)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Contains(t, verrs.Details(), tt.wantField)
		})
	}
}

func TestValidate_SlotStartMessage(t *testing.T) {
	v := NewBookingValidator(logger.NewNop())
	b := validBooking()
	b.StartTime = "23:00"

	var verrs validation.ValidationErrors
	require.True(t, errors.As(v.Validate(b), &verrs))
	assert.Equal(t, "start_time must be a whole hour between 06:00 and 21:00", verrs.Details()["start_time"])
}
