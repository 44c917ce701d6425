// Package payment is the mock payment gateway behind the add-funds flow.
// No money moves; it only validates what a real checkout form would.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tokenpulse/tokenpulse/pkg/validation"
)

type Method string

const (
	MethodUPI  Method = "UPI"
	MethodCard Method = "Card"

	// MockPIN is the only PIN the gateway accepts.
	MockPIN = "1234"
)

var (
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrInvalidUPI    = errors.New("invalid UPI ID")
	ErrInvalidCard   = errors.New("invalid card details")
	ErrInvalidPIN    = errors.New("invalid PIN")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Request carries the checkout form. UPIID is used for UPI payments and the
// card fields for card payments.
type Request struct {
	Method     Method `json:"method"`
	UPIID      string `json:"upi_id"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	PIN        string `json:"pin"`
}

type Receipt struct {
	ID     string    `json:"id"`
	Method Method    `json:"method"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
}

type Gateway struct {
	pin string
	now func() time.Time
}

// NewGateway returns a gateway accepting pin. An empty pin means MockPIN.
func NewGateway(pin string) *Gateway {
	if pin == "" {
		pin = MockPIN
	}
	return &Gateway{pin: pin, now: time.Now}
}

// Charge validates the payment details first, then the PIN.
func (g *Gateway) Charge(amount float64, req Request) (*Receipt, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}

	switch req.Method {
	case MethodUPI:
		if err := validateUPI(req.UPIID); err != nil {
			return nil, err
		}
	case MethodCard:
		if err := validateCard(req.CardNumber, req.Expiry, req.CVV); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}

	if req.PIN != g.pin {
		return nil, ErrInvalidPIN
	}

	return &Receipt{
		ID:     uuid.NewString(),
		Method: req.Method,
		Amount: amount,
		PaidAt: g.now(),
	}, nil
}

func validateUPI(id string) error {
	handle, bank, ok := strings.Cut(strings.TrimSpace(id), "@")
	if !ok || handle == "" || bank == "" {
		return fmt.Errorf("%w: expected name@bank", ErrInvalidUPI)
	}
	return nil
}

func validateCard(number, expiry, cvv string) error {
	digits := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if len(digits) < 12 || len(digits) > 19 || !allDigits(digits) {
		return fmt.Errorf("%w: card number", ErrInvalidCard)
	}
	month, year, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || len(month) != 2 || len(year) != 2 || !allDigits(month+year) || month < "01" || month > "12" {
		return fmt.Errorf("%w: expiry must be MM/YY", ErrInvalidCard)
	}
	if (len(cvv) != 3 && len(cvv) != 4) || !allDigits(cvv) {
		return fmt.Errorf("%w: cvv", ErrInvalidCard)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
