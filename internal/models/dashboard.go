package models

import "context"

// DisplayToken is a token plus its values rendered in the requested currency.
type DisplayToken struct {
	Token
	Display TokenDisplay `json:"display"`
}

type TokenDisplay struct {
	Price          string  `json:"price"`
	PriceValue     float64 `json:"price_value"`
	PriceChange15m string  `json:"price_change_15m"`
	PriceChange1h  string  `json:"price_change_1h"`
	Volume         string  `json:"volume"`
	Liquidity      string  `json:"liquidity"`
	Age            string  `json:"age"`
}

// TokenListing is what the token table renders.
type TokenListing struct {
	Loading      bool                   `json:"loading"`
	Tab          TokenStatus            `json:"tab"`
	Sort         *SortDescriptor        `json:"sort"`
	Currency     string                 `json:"currency"`
	Version      uint64                 `json:"version"`
	Tokens       []DisplayToken         `json:"tokens"`
	PriceUpdates map[string]PriceUpdate `json:"price_updates"`
}

// CurrencyInfo describes a display currency.
type CurrencyInfo struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// FundsRequest is an add-funds checkout. Amount is in Currency.
type FundsRequest struct {
	Amount     float64 `json:"amount" binding:"required"`
	Currency   string  `json:"currency"`
	Method     string  `json:"method" binding:"required"`
	UPIID      string  `json:"upi_id"`
	CardNumber string  `json:"card_number"`
	Expiry     string  `json:"expiry"`
	CVV        string  `json:"cvv"`
	PIN        string  `json:"pin" binding:"required"`
}

type FundsResult struct {
	ReceiptID   string  `json:"receipt_id"`
	Method      string  `json:"method"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	CreditedUSD float64 `json:"credited_usd"`
	USDBalance  float64 `json:"usd_balance"`
	Display     string  `json:"display"`
}

// DashboardI is the application service behind the HTTP API.
type DashboardI interface {
	Start(ctx context.Context) error
	Stop()
	Ready() bool

	Tokens(currency string) (*TokenListing, error)
	Token(id string) (*Token, error)
	SetTab(tab string) (TokenStatus, error)
	ToggleSort(column string) (*SortDescriptor, error)
	ClearSort()
	Subscribe() (<-chan PriceEvent, func())

	ConnectWallet(ctx context.Context) (WalletState, error)
	DisconnectWallet() WalletState
	Wallet() WalletState
	Trade(tokenID string, amount float64, action TradeAction) (*Trade, WalletState, error)
	AddFunds(req FundsRequest) (*FundsResult, error)

	Profile() (*Profile, error)
	UpdateProfile(patch ProfilePatch) (*Profile, error)
	ResetProfile() (*Profile, error)
	Currencies() []CurrencyInfo
}

// APIServer is the public surface of the HTTP API server.
type APIServer interface {
	Start()
	Shutdown() error
}
