package ledger

import "errors"

var (
	ErrTokenNotFound            = errors.New("token not found")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInsufficientTokenBalance = errors.New("insufficient token balance")
	ErrNotConnected             = errors.New("wallet not connected")
	ErrInvalidAction            = errors.New("invalid trade action")
)

// Kind returns the stable name of a ledger error for API responses, or ""
// when err is not a ledger error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrTokenNotFound):
		return "TokenNotFound"
	case errors.Is(err, ErrInsufficientFunds):
		return "InsufficientFunds"
	case errors.Is(err, ErrInsufficientTokenBalance):
		return "InsufficientTokenBalance"
	case errors.Is(err, ErrNotConnected):
		return "NotConnected"
	case errors.Is(err, ErrInvalidAction):
		return "InvalidAction"
	}
	return ""
}
