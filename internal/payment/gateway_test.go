package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharge(t *testing.T) {
	g := NewGateway("")

	tests := []struct {
		name   string
		amount float64
		req    Request
		err    error
	}{
		{"upi ok", 50, Request{Method: MethodUPI, UPIID: "ada@bank", PIN: "1234"}, nil},
		{"card ok", 50, Request{Method: MethodCard, CardNumber: "4111 1111 1111 1111", Expiry: "12/29", CVV: "123", PIN: "1234"}, nil},
		{"missing upi", 50, Request{Method: MethodUPI, PIN: "1234"}, ErrInvalidUPI},
		{"upi without bank", 50, Request{Method: MethodUPI, UPIID: "ada@", PIN: "1234"}, ErrInvalidUPI},
		{"short card", 50, Request{Method: MethodCard, CardNumber: "4111", Expiry: "12/29", CVV: "123", PIN: "1234"}, ErrInvalidCard},
		{"bad month", 50, Request{Method: MethodCard, CardNumber: "4111111111111111", Expiry: "13/29", CVV: "123", PIN: "1234"}, ErrInvalidCard},
		{"bad cvv", 50, Request{Method: MethodCard, CardNumber: "4111111111111111", Expiry: "01/29", CVV: "12a", PIN: "1234"}, ErrInvalidCard},
		{"wrong pin", 50, Request{Method: MethodUPI, UPIID: "ada@bank", PIN: "0000"}, ErrInvalidPIN},
		{"unknown method", 50, Request{Method: "Cash", PIN: "1234"}, ErrInvalidMethod},
		{"zero amount", 0, Request{Method: MethodUPI, UPIID: "ada@bank", PIN: "1234"}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := g.Charge(tt.amount, tt.req)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, receipt)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, receipt.ID)
			assert.Equal(t, tt.req.Method, receipt.Method)
			assert.Equal(t, tt.amount, receipt.Amount)
		})
	}
}

func TestDetailsCheckedBeforePIN(t *testing.T) {
	g := NewGateway("9999")
	_, err := g.Charge(10, Request{Method: MethodCard, PIN: "0000"})
	assert.ErrorIs(t, err, ErrInvalidCard)

	_, err = g.Charge(10, Request{Method: MethodUPI, UPIID: "a@b", PIN: "9999"})
	assert.NoError(t, err)
}
