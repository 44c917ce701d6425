// Package ledger keeps the simulated wallet of the connected identity and
// executes trades against it.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/repository"
	"github.com/tokenpulse/tokenpulse/internal/tick"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
	"github.com/tokenpulse/tokenpulse/pkg/validation"
)

const (
	DefaultSeedUSD = 10_000

	// seeded token holdings are worth between these USD amounts at catalog price
	minSeedHoldingUSD = 100
	maxSeedHoldingUSD = 1_000
)

// PriceSource quotes the current USD price of a token. feed.Controller
// implements it.
type PriceSource interface {
	Quote(id string) (price float64, ticker string, ok bool)
}

// Observer receives ledger statistics. observability.Metrics implements it.
type Observer interface {
	TradeExecuted(action models.TradeAction, valueUSD float64)
	TradeRejected(reason string)
	FundsAdded(amountUSD float64)
}

type nopObserver struct{}

func (nopObserver) TradeExecuted(models.TradeAction, float64) {}
func (nopObserver) TradeRejected(string)                      {}
func (nopObserver) FundsAdded(float64)                        {}

// Config sets the wallet seeding policy.
type Config struct {
	// SeedUSD is the cash balance a fresh connection starts with.
	SeedUSD float64
	// Seed makes token holdings reproducible across connections.
	Seed uint64
}

// Ledger owns the wallet state of the connected identity. Every mutating
// operation runs under a single lock, so checks and mutations are atomic.
type Ledger struct {
	logger   *logger.Logger
	catalog  *catalog.Catalog
	prices   PriceSource
	profiles models.ProfileRepository
	notifier models.NotificationService
	observer Observer
	cfg      Config
	now      func() time.Time

	mu        sync.Mutex
	account   string
	connected bool
	usd       decimal.Decimal
	balances  map[string]decimal.Decimal
	profile   *models.Profile
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sends trade and deposit notifications.
func WithNotifier(n models.NotificationService) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithObserver attaches ledger metrics.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		if o != nil {
			l.observer = o
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(cat *catalog.Catalog, prices PriceSource, profiles models.ProfileRepository, cfg Config, log *logger.Logger, opts ...Option) *Ledger {
	if cfg.SeedUSD <= 0 {
		cfg.SeedUSD = DefaultSeedUSD
	}
	l := &Ledger{
		logger:   log,
		catalog:  cat,
		prices:   prices,
		profiles: profiles,
		observer: nopObserver{},
		cfg:      cfg,
		now:      time.Now,
		balances: make(map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Connect initializes the wallet for account: cash is set to the seed amount
// and every non-stablecoin catalog token gets a nonzero holding drawn from
// the configured seed. The profile is loaded from the store, or created.
func (l *Ledger) Connect(account string) (models.WalletState, error) {
	account, err := validation.ValidateAndNormalizeAccount(account)
	if err != nil {
		return models.WalletState{}, err
	}

	rng := tick.NewSource(l.cfg.Seed)
	balances := make(map[string]decimal.Decimal)
	for _, t := range l.catalog.Tokens() {
		if t.Stablecoin {
			continue
		}
		worth := minSeedHoldingUSD + rng.Float64()*(maxSeedHoldingUSD-minSeedHoldingUSD)
		balances[t.ID] = decimal.NewFromFloat(worth / t.Price)
	}

	profile := l.loadProfile(account)

	l.mu.Lock()
	l.account = account
	l.connected = true
	l.usd = decimal.NewFromFloat(l.cfg.SeedUSD)
	l.balances = balances
	l.profile = profile
	state := l.stateLocked()
	l.mu.Unlock()

	l.logger.Info("Wallet connected", "account", account, "usd_balance", l.cfg.SeedUSD, "tokens", len(balances))
	return state, nil
}

func (l *Ledger) loadProfile(account string) *models.Profile {
	fallback := l.defaultProfile(account)
	if l.profiles == nil {
		return fallback
	}
	profile, err := l.profiles.GetProfile(account)
	if err == nil {
		return profile
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		l.logger.Error("Failed to load profile", "account", account, "error", err)
		return fallback
	}
	if err := l.profiles.SaveProfile(fallback); err != nil {
		l.logger.Error("Failed to create profile", "account", account, "error", err)
	}
	return fallback
}

func (l *Ledger) defaultProfile(account string) *models.Profile {
	return &models.Profile{
		Account:   account,
		Name:      "Trader " + validation.ShortAccount(account),
		UpdatedAt: l.now().Unix(),
	}
}

// Disconnect clears balances and connection state unconditionally.
func (l *Ledger) Disconnect() {
	l.mu.Lock()
	account := l.account
	l.account = ""
	l.connected = false
	l.usd = decimal.Zero
	l.balances = make(map[string]decimal.Decimal)
	l.profile = nil
	l.mu.Unlock()

	if account != "" {
		l.logger.Info("Wallet disconnected", "account", account)
	}
}

// ExecuteTrade buys or sells amount of tokenID at the token's current USD
// price. On error nothing changes. amount must already be a finite positive
// number. The returned state is the wallet right after this trade.
func (l *Ledger) ExecuteTrade(tokenID string, amount float64, action models.TradeAction) (*models.Trade, models.WalletState, error) {
	trade, state, email, err := l.executeTrade(tokenID, amount, action)
	if err != nil {
		l.observer.TradeRejected(Kind(err))
		l.logger.Debug("Trade rejected", "token", tokenID, "amount", amount, "action", action, "error", err)
		return nil, state, err
	}

	l.observer.TradeExecuted(trade.Action, trade.Value)
	l.logger.Info("Trade executed", "id", trade.ID, "token", trade.TokenID, "action", trade.Action,
		"amount", trade.Amount, "price", trade.Price, "value", trade.Value)
	l.notify(&models.Notification{
		Kind:    models.NotificationTrade,
		Account: trade.Account,
		Email:   email,
		Trade:   trade,
	})
	return trade, state, nil
}

func (l *Ledger) executeTrade(tokenID string, amount float64, action models.TradeAction) (*models.Trade, models.WalletState, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fail := func(err error) (*models.Trade, models.WalletState, string, error) {
		return nil, l.stateLocked(), "", err
	}

	if !l.connected {
		return fail(ErrNotConnected)
	}
	if action != models.ActionBuy && action != models.ActionSell {
		return fail(fmt.Errorf("%w: %q", ErrInvalidAction, action))
	}
	price, ticker, ok := l.prices.Quote(tokenID)
	if !ok {
		return fail(fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID))
	}

	qty := decimal.NewFromFloat(amount)
	value := qty.Mul(decimal.NewFromFloat(price))
	held := l.balances[tokenID]

	switch action {
	case models.ActionBuy:
		if l.usd.LessThan(value) {
			return fail(fmt.Errorf("%w: need $%s, have $%s", ErrInsufficientFunds, value.StringFixed(2), l.usd.StringFixed(2)))
		}
		l.usd = l.usd.Sub(value)
		l.balances[tokenID] = held.Add(qty)
	case models.ActionSell:
		if held.LessThan(qty) {
			return fail(fmt.Errorf("%w: need %s %s, have %s", ErrInsufficientTokenBalance, qty.String(), ticker, held.String()))
		}
		l.usd = l.usd.Add(value)
		l.balances[tokenID] = held.Sub(qty)
	}

	trade := &models.Trade{
		ID:         uuid.NewString(),
		Account:    l.account,
		TokenID:    tokenID,
		Ticker:     ticker,
		Action:     action,
		Amount:     amount,
		Price:      price,
		Value:      value.InexactFloat64(),
		ExecutedAt: l.now(),
	}
	return trade, l.stateLocked(), l.emailLocked(), nil
}

// AddFunds credits the cash balance of the connected wallet by amount USD
// and returns the new balance. The connection check and the credit happen
// under one lock. amount must already be validated as positive; method names
// the payment method for the deposit notification.
func (l *Ledger) AddFunds(amount float64, method string) (float64, error) {
	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return 0, ErrNotConnected
	}
	l.usd = l.usd.Add(decimal.NewFromFloat(amount))
	balance := l.usd.InexactFloat64()
	account := l.account
	email := l.emailLocked()
	l.mu.Unlock()

	l.observer.FundsAdded(amount)
	l.logger.Info("Funds added", "account", account, "amount", amount, "usd_balance", balance)
	l.notify(&models.Notification{
		Kind:    models.NotificationDeposit,
		Account: account,
		Email:   email,
		Amount:  amount,
		Method:  method,
	})
	return balance, nil
}

func (l *Ledger) notify(n *models.Notification) {
	if l.notifier == nil {
		return
	}
	go l.notifier.SendNotification(n)
}

func (l *Ledger) emailLocked() string {
	if l.profile == nil {
		return ""
	}
	return l.profile.Email
}

// UpdateProfile merges patch into the connected profile and forwards the
// result to the profile store. The in-memory profile is updated even when the
// store fails; the store error is returned.
func (l *Ledger) UpdateProfile(patch models.ProfilePatch) (*models.Profile, error) {
	l.mu.Lock()
	if !l.connected || l.profile == nil {
		l.mu.Unlock()
		return nil, ErrNotConnected
	}
	patch.Apply(l.profile)
	l.profile.UpdatedAt = l.now().Unix()
	updated := *l.profile
	l.mu.Unlock()

	if l.profiles != nil {
		if err := l.profiles.SaveProfile(&updated); err != nil {
			l.logger.Error("Failed to save profile", "account", updated.Account, "error", err)
			return &updated, fmt.Errorf("failed to save profile: %w", err)
		}
	}
	return &updated, nil
}

// ResetProfile removes the connected account's stored profile and replaces
// the in-memory one with the default. The default is returned even when the
// store fails, together with the error.
func (l *Ledger) ResetProfile() (*models.Profile, error) {
	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return nil, ErrNotConnected
	}
	account := l.account
	l.profile = l.defaultProfile(account)
	fresh := *l.profile
	l.mu.Unlock()

	if l.profiles != nil {
		if err := l.profiles.DeleteProfile(account); err != nil {
			l.logger.Error("Failed to delete profile", "account", account, "error", err)
			return &fresh, fmt.Errorf("failed to delete profile: %w", err)
		}
	}
	l.logger.Info("Profile reset", "account", account)
	return &fresh, nil
}

// Profile returns a copy of the connected profile.
func (l *Ledger) Profile() (*models.Profile, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.profile == nil {
		return nil, false
	}
	p := *l.profile
	return &p, true
}

// State returns a snapshot of the wallet.
func (l *Ledger) State() models.WalletState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// Account returns the connected account, empty when disconnected.
func (l *Ledger) Account() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account
}

func (l *Ledger) stateLocked() models.WalletState {
	balances := make(map[string]float64, len(l.balances))
	for id, qty := range l.balances {
		balances[id] = qty.InexactFloat64()
	}
	return models.WalletState{
		Account:       l.account,
		Connected:     l.connected,
		USDBalance:    l.usd.InexactFloat64(),
		TokenBalances: balances,
	}
}

// setBalancesForTest replaces balances directly.
func (l *Ledger) setBalancesForTest(usd float64, tokens map[string]float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usd = decimal.NewFromFloat(usd)
	l.balances = make(map[string]decimal.Decimal, len(tokens))
	for id, qty := range tokens {
		l.balances[id] = decimal.NewFromFloat(qty)
	}
}
