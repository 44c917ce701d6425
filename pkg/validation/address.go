package validation

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// AccountHexLength is the number of hex characters in an account id (20 bytes).
const AccountHexLength = 40

// ValidateAccount validates a wallet account id ("0x" followed by 40 hex characters)
func ValidateAccount(account string) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}

	if !strings.HasPrefix(account, "0x") && !strings.HasPrefix(account, "0X") {
		return fmt.Errorf("account must start with 0x")
	}
	normalized := account[2:]

	if len(normalized) != AccountHexLength {
		return fmt.Errorf("invalid account length: expected %d characters (without 0x), got %d", AccountHexLength, len(normalized))
	}

	if _, err := hex.DecodeString(normalized); err != nil {
		return fmt.Errorf("invalid hex account: %w", err)
	}

	return nil
}

// NormalizeAccount converts an account to lowercase with a 0x prefix
func NormalizeAccount(account string) string {
	account = strings.TrimPrefix(account, "0x")
	account = strings.TrimPrefix(account, "0X")
	return "0x" + strings.ToLower(account)
}

// ValidateAndNormalizeAccount validates an account and returns its normalized form
func ValidateAndNormalizeAccount(account string) (string, error) {
	if err := ValidateAccount(account); err != nil {
		return "", err
	}
	return NormalizeAccount(account), nil
}

// ShortAccount renders an account as 0x1234...abcd for display.
func ShortAccount(account string) string {
	if len(account) < 10 {
		return account
	}
	return account[:6] + "..." + account[len(account)-4:]
}

// ValidateAmount checks that an amount is a finite number greater than zero.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount must be a finite number")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", amount)
	}
	return nil
}
