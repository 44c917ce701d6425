package models

import (
	"fmt"

	"github.com/tokenpulse/tokenpulse/pkg/validation"
)

// NotificationKind says what happened in the wallet.
type NotificationKind string

const (
	NotificationTrade   NotificationKind = "trade"
	NotificationDeposit NotificationKind = "deposit"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Account string           `json:"account"`
	// Email is the connected profile's email, empty when none is set.
	Email string `json:"email,omitempty"`
	// Trade is set for trade notifications.
	Trade *Trade `json:"trade,omitempty"`
	// Amount is the deposited USD amount for deposit notifications.
	Amount float64 `json:"amount,omitempty"`
	// Method is the payment method used for a deposit (UPI or Card).
	Method string `json:"method,omitempty"`
}

func (n *Notification) String() string {
	account := validation.ShortAccount(n.Account)
	switch n.Kind {
	case NotificationTrade:
		if n.Trade == nil {
			return fmt.Sprintf("Trade executed for %s", account)
		}
		verb := "Bought"
		if n.Trade.Action == ActionSell {
			verb = "Sold"
		}
		return fmt.Sprintf("%s %.4f %s at $%.6f ($%.2f) in wallet %s",
			verb, n.Trade.Amount, n.Trade.Ticker, n.Trade.Price, n.Trade.Value, account)
	case NotificationDeposit:
		return fmt.Sprintf("$%.2f added to wallet %s via %s", n.Amount, account, n.Method)
	default:
		return fmt.Sprintf("Wallet %s updated", account)
	}
}
