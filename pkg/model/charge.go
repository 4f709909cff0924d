package model

import "time"

const (
	ChargeStatusPaid   = "paid"
	ChargeStatusFailed = "failed"

	MethodCard = "card"
	MethodYape = "yape"
	MethodMock = "mock"

	CurrencyPEN = "PEN"
)

// Charge is a recorded (mock) payment attempt. Amount is in céntimos,
// AmountSoles in soles.
type Charge struct {
	ID          string         `json:"id" bson:"id"`
	Status      string         `json:"status" bson:"status"`
	Amount      int64          `json:"amount" bson:"amount"`
	AmountSoles float64        `json:"amount_soles" bson:"amount_soles"`
	Currency    string         `json:"currency" bson:"currency"`
	Email       string         `json:"email" bson:"email"`
	Method      string         `json:"method" bson:"method"`
	Description string         `json:"description" bson:"description"`
	Metadata    map[string]any `json:"metadata" bson:"metadata"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	VoucherURL  string         `json:"voucher_url" bson:"voucher_url"`
}

type PaymentSimulation struct {
	Status string `json:"status"`
}

type PaymentRequest struct {
	AmountSoles float64           `json:"amount_soles" validate:"gt=0,lte=100000"`
	Email       string            `json:"email" validate:"required,email"`
	Method      string            `json:"method" validate:"omitempty,oneof=card yape"`
	Description string            `json:"description" validate:"max=200"`
	Metadata    map[string]any    `json:"metadata"`
	Simulate    PaymentSimulation `json:"simulate"`
}

type PaymentResult struct {
	OK     bool    `json:"ok"`
	Charge *Charge `json:"charge"`
}

type PaymentSessionRequest struct {
	AmountSoles *float64       `json:"amount_soles"`
	Email       string         `json:"email"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type PaymentSession struct {
	ID             string         `json:"id"`
	PaymentMethods []string       `json:"payment_methods"`
	CreatedAt      time.Time      `json:"created_at"`
	AmountSoles    *float64       `json:"amount_soles"`
	Email          string         `json:"email"`
	Description    string         `json:"description"`
	Metadata       map[string]any `json:"metadata"`
}

type PaymentSessionResult struct {
	OK      bool            `json:"ok"`
	Session *PaymentSession `json:"session"`
}

type ChargeList struct {
	OK      bool      `json:"ok"`
	Charges []*Charge `json:"charges"`
}
