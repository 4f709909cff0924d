package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a single court-hour reservation. Dates and times are stored as
// "YYYY-MM-DD" and "HH:MM" strings so they sort lexicographically.
type Booking struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	CustomerName string    `json:"customer_name" bson:"customer_name" validate:"required,min=1,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone" bson:"phone" validate:"required,phone9"`
	BookingDate  string    `json:"booking_date" bson:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,slot_start"`
	EndTime      string    `json:"end_time" bson:"end_time"`
	CourtNumber  int       `json:"court_number" bson:"court_number" validate:"required,min=1,max=3"`
	Status       string    `json:"status" bson:"status"`
	AdminComment string    `json:"admin_comment,omitempty" bson:"admin_comment,omitempty" validate:"max=200"`
	VoucherURL   string    `json:"voucher_url,omitempty" bson:"voucher_url,omitempty" validate:"max=500"`
	ChargeID     string    `json:"charge_id,omitempty" bson:"charge_id,omitempty" validate:"max=100"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}
