package model

import (
	"testing"

	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/validation"
)

func TestPaymentRequest_Tags(t *testing.T) {
	tests := []struct {
		name        string
		req         PaymentRequest
		expectValid bool
	}{
		{
			name:        "valid card payment",
			req:         PaymentRequest{AmountSoles: 35, Email: "ana@example.com", Method: MethodCard},
			expectValid: true,
		},
		{
			name:        "method may be left empty",
			req:         PaymentRequest{AmountSoles: 35, Email: "ana@example.com"},
			expectValid: true,
		},
		{
			name: "zero amount",
			req:  PaymentRequest{AmountSoles: 0, Email: "ana@example.com"},
		},
		{
			name: "negative amount",
			req:  PaymentRequest{AmountSoles: -5, Email: "ana@example.com"},
		},
		{
			name: "mock is not accepted from clients",
			req:  PaymentRequest{AmountSoles: 35, Email: "ana@example.com", Method: MethodMock},
		},
		{
			name: "missing email",
			req:  PaymentRequest{AmountSoles: 35},
		},
	}

	v := validation.New(logger.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&tt.req)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
