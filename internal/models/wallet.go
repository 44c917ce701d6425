package models

import "time"

// WalletState is a snapshot of the connected identity's simulated balances.
type WalletState struct {
	// Account is the connected wallet id, empty when disconnected.
	Account string `json:"account"`
	// Connected reports whether an identity is connected.
	Connected bool `json:"connected"`
	// USDBalance is the cash balance in USD.
	USDBalance float64 `json:"usd_balance"`
	// TokenBalances maps token id to held quantity.
	TokenBalances map[string]float64 `json:"token_balances"`
}

// TradeAction is the side of a trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Trade is an executed simulated trade.
type Trade struct {
	// ID is a random uuid assigned at execution.
	ID      string      `json:"id"`
	Account string      `json:"account"`
	TokenID string      `json:"token_id"`
	Ticker  string      `json:"ticker"`
	Action  TradeAction `json:"action"`
	// Amount is the token quantity.
	Amount float64 `json:"amount"`
	// Price is the USD token price the trade executed at.
	Price float64 `json:"price"`
	// Value is Amount * Price in USD.
	Value      float64   `json:"value"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Profile is the user profile kept in the external profile store.
type Profile struct {
	// Account is the wallet id that owns the profile.
	Account string `json:"account" gorm:"column:account;primaryKey;size:42"`
	// Name is the display name.
	Name string `json:"name" gorm:"column:name"`
	// Email is the contact email of the user.
	Email string `json:"email" gorm:"column:email;index"`
	// Country is an ISO 3166 alpha-2 code (IN, US, GB, CA, AU, JP).
	Country string `json:"country" gorm:"column:country;size:2"`
	// Contact is the phone number.
	Contact string `json:"contact" gorm:"column:contact"`
	// ProfilePic is the avatar URL.
	ProfilePic string `json:"profile_pic" gorm:"column:profile_pic"`
	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64 `json:"updated_at" gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// ProfilePatch carries the fields of a partial profile update. Nil fields are
// left untouched.
type ProfilePatch struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Country    *string `json:"country" binding:"omitempty,oneof=IN US GB CA AU JP"`
	Contact    *string `json:"contact"`
	ProfilePic *string `json:"profile_pic" binding:"omitempty,url"`
}

// Apply merges the non-nil fields of the patch into p.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.Contact != nil {
		p.Contact = *patch.Contact
	}
	if patch.ProfilePic != nil {
		p.ProfilePic = *patch.ProfilePic
	}
}
