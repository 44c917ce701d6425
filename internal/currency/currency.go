// Package currency converts USD amounts into display currencies and renders
// them for the dashboard.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Code string

const (
	USD Code = "USD"
	INR Code = "INR"

	DefaultINRRate = 83.5
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is a display currency. Rate is the number of units per USD.
type Currency struct {
	Code   Code            `json:"code"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// Table holds the supported currencies. Rates are fixed for the process
// lifetime.
type Table struct {
	order []Code
	byKey map[Code]Currency
}

func NewTable(inrRate float64) (*Table, error) {
	if inrRate <= 0 {
		return nil, fmt.Errorf("INR rate must be positive, got %v", inrRate)
	}
	list := []Currency{
		{Code: USD, Symbol: "$", Rate: decimal.NewFromInt(1)},
		{Code: INR, Symbol: "₹", Rate: decimal.NewFromFloat(inrRate)},
	}
	t := &Table{byKey: make(map[Code]Currency, len(list))}
	for _, c := range list {
		t.order = append(t.order, c.Code)
		t.byKey[c.Code] = c
	}
	return t, nil
}

// Get resolves a code case-insensitively. An empty code means USD.
func (t *Table) Get(code string) (Currency, error) {
	if code == "" {
		return t.byKey[USD], nil
	}
	c, ok := t.byKey[Code(strings.ToUpper(code))]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return c, nil
}

func (t *Table) List() []Currency {
	out := make([]Currency, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.byKey[code])
	}
	return out
}

// FromUSD converts a USD amount into c.
func (c Currency) FromUSD(usd float64) float64 {
	return decimal.NewFromFloat(usd).Mul(c.Rate).InexactFloat64()
}

// ToUSD converts an amount in c into USD.
func (c Currency) ToUSD(amount float64) float64 {
	return decimal.NewFromFloat(amount).Div(c.Rate).InexactFloat64()
}
