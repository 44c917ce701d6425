package models

import (
	"fmt"
	"time"
)

// TokenStatus is the discovery stage a token pair is listed under.
type TokenStatus string

const (
	StatusNewPairs     TokenStatus = "New pairs"
	StatusFinalStretch TokenStatus = "Final Stretch"
	StatusMigrated     TokenStatus = "Migrated"
)

// TokenStatuses lists the statuses in tab order.
var TokenStatuses = []TokenStatus{StatusNewPairs, StatusFinalStretch, StatusMigrated}

// ParseTokenStatus returns the status matching s exactly.
func ParseTokenStatus(s string) (TokenStatus, error) {
	for _, status := range TokenStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown token status %q", s)
}

// Icon identifies a token logo. The presentation layer maps it to an asset.
type Icon string

const (
	IconGeneric  Icon = "generic"
	IconBitcoin  Icon = "bitcoin"
	IconEthereum Icon = "ethereum"
	IconSolana   Icon = "solana"
	IconDoge     Icon = "doge"
	IconFrog     Icon = "frog"
	IconCat      Icon = "cat"
	IconRocket   Icon = "rocket"
	IconDollar   Icon = "dollar"
)

var knownIcons = map[Icon]struct{}{
	IconGeneric: {}, IconBitcoin: {}, IconEthereum: {}, IconSolana: {}, IconDoge: {},
	IconFrog: {}, IconCat: {}, IconRocket: {}, IconDollar: {},
}

// Valid reports whether the icon is one of the known identifiers.
func (i Icon) Valid() bool {
	_, ok := knownIcons[i]
	return ok
}

// PricePoint is one sample of a token's price history.
type PricePoint struct {
	// Time is the sample time in Unix milliseconds.
	Time  int64   `json:"time" yaml:"time"`
	Price float64 `json:"price" yaml:"price"`
}

// Token is a listed token pair with its simulated market state.
// All monetary fields are USD.
type Token struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Ticker string `json:"ticker" yaml:"ticker"`
	Icon   Icon   `json:"icon" yaml:"icon"`

	Price          float64 `json:"price" yaml:"price"`
	PriceChange15m float64 `json:"priceChange15m" yaml:"price_change_15m"`
	PriceChange1h  float64 `json:"priceChange1h" yaml:"price_change_1h"`
	Volume         float64 `json:"volume" yaml:"volume"`
	Liquidity      float64 `json:"liquidity" yaml:"liquidity"`
	// OnChain is the pair age in minutes.
	OnChain float64 `json:"onChain" yaml:"on_chain"`

	Status     TokenStatus `json:"status" yaml:"status"`
	Stablecoin bool        `json:"stablecoin" yaml:"stablecoin"`

	PriceHistory []PricePoint `json:"priceHistory" yaml:"price_history"`
}

// Clone returns a deep copy so callers never share the history slice.
func (t Token) Clone() Token {
	c := t
	if t.PriceHistory != nil {
		c.PriceHistory = make([]PricePoint, len(t.PriceHistory))
		copy(c.PriceHistory, t.PriceHistory)
	}
	return c
}

// Direction is the sign of a price move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// PriceUpdate marks a token whose price changed on a tick. Consumers flash the
// row until the update is older than PriceUpdateWindow.
type PriceUpdate struct {
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceUpdateWindow is how long a PriceUpdate stays visible.
const PriceUpdateWindow = 1500 * time.Millisecond

// Expired reports whether the update is past its display window at now.
func (u PriceUpdate) Expired(now time.Time) bool {
	return now.Sub(u.Timestamp) >= PriceUpdateWindow
}

// PriceEvent is a PriceUpdate bound to its token, as broadcast to subscribers.
type PriceEvent struct {
	TokenID   string    `json:"token_id"`
	Direction Direction `json:"direction"`
	OldPrice  float64   `json:"old_price"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// SortColumn names a sortable token field.
type SortColumn string

const (
	ColumnIndex          SortColumn = "#"
	ColumnName           SortColumn = "name"
	ColumnTicker         SortColumn = "ticker"
	ColumnPrice          SortColumn = "price"
	ColumnPriceChange15m SortColumn = "priceChange15m"
	ColumnPriceChange1h  SortColumn = "priceChange1h"
	ColumnVolume         SortColumn = "volume"
	ColumnLiquidity      SortColumn = "liquidity"
	ColumnOnChain        SortColumn = "onChain"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// SortDescriptor selects the ordering of the projection. A nil descriptor
// keeps the underlying list order.
type SortDescriptor struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}
