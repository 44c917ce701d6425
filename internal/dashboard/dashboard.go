// Package dashboard is the application service: it owns the live feed, the
// table view and the wallet ledger, and serves all business logic behind the
// HTTP API.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/config"
	"github.com/tokenpulse/tokenpulse/internal/currency"
	"github.com/tokenpulse/tokenpulse/internal/feed"
	"github.com/tokenpulse/tokenpulse/internal/identity"
	"github.com/tokenpulse/tokenpulse/internal/ledger"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/observability"
	"github.com/tokenpulse/tokenpulse/internal/payment"
	"github.com/tokenpulse/tokenpulse/internal/projector"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
	"github.com/tokenpulse/tokenpulse/pkg/validation"
)

const (
	// pruneSchedule clears expired price-change flashes.
	pruneSchedule = "@every 1s"

	identityDisconnectTimeout = 5 * time.Second
)

var (
	ErrInvalidTab    = errors.New("invalid tab")
	ErrInvalidColumn = errors.New("invalid sort column")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Dashboard is the main struct of the application. It contains all the
// components needed to run it.
type Dashboard struct {
	logger *logger.Logger
	config *config.Config

	repo        models.ProfileRepository
	identity    identity.Provider
	notificator models.NotificationService
	metrics     *observability.Metrics

	feed       *feed.Controller
	view       *projector.View
	ledger     *ledger.Ledger
	currencies *currency.Table
	payments   *payment.Gateway
	cron       *cron.Cron

	// connMu serializes wallet connect, disconnect and the identity check.
	connMu sync.Mutex
	// background identity disconnects
	wg sync.WaitGroup
}

// NewDashboard creates a new Dashboard instance
func NewDashboard(
	cat *catalog.Catalog,
	repo models.ProfileRepository,
	ident identity.Provider,
	notificator models.NotificationService,
	metrics *observability.Metrics,
	logger *logger.Logger,
	config *config.Config,
) (*Dashboard, error) {
	currencies, err := currency.NewTable(config.INRRate)
	if err != nil {
		return nil, fmt.Errorf("failed to build currency table: %w", err)
	}

	feedOpts := []feed.Option{}
	ledgerOpts := []ledger.Option{}
	if metrics != nil {
		feedOpts = append(feedOpts, feed.WithObserver(metrics))
		ledgerOpts = append(ledgerOpts, ledger.WithObserver(metrics))
	}
	if notificator != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithNotifier(notificator))
	}

	live := feed.NewController(cat, feed.Config{
		StartupDelay:      config.FeedStartupDelay,
		TickInterval:      config.FeedTickInterval,
		UpdateProbability: config.FeedUpdateProbability,
		Seed:              config.FeedSeed,
	}, logger.Named("feed"), feedOpts...)

	d := &Dashboard{
		logger:      logger,
		config:      config,
		repo:        repo,
		identity:    ident,
		notificator: notificator,
		metrics:     metrics,
		feed:        live,
		view:        projector.NewView(live),
		ledger: ledger.New(cat, live, repo, ledger.Config{
			SeedUSD: config.WalletSeedUSD,
			Seed:    config.WalletSeed,
		}, logger.Named("ledger"), ledgerOpts...),
		currencies: currencies,
		payments:   payment.NewGateway(payment.MockPIN),
		cron:       cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
	}

	if _, err := d.cron.AddFunc(pruneSchedule, d.pruneUpdates); err != nil {
		return nil, fmt.Errorf("failed to register prune job: %w", err)
	}
	return d, nil
}

// Start starts the feed and the maintenance jobs
func (d *Dashboard) Start(ctx context.Context) error {
	d.feed.Start(ctx)
	d.cron.Start()
	d.logger.Info("Dashboard started")
	return nil
}

// Stop stops the feed and waits for running jobs
func (d *Dashboard) Stop() {
	<-d.cron.Stop().Done()
	d.feed.Stop()
	d.wg.Wait()
	d.logger.Info("Dashboard stopped")
}

// Ready reports whether the feed has gone live.
func (d *Dashboard) Ready() bool {
	return !d.feed.IsLoading()
}

func (d *Dashboard) pruneUpdates() {
	removed := d.feed.PruneUpdates(time.Now())
	if removed > 0 && d.metrics != nil {
		d.metrics.UpdatesPruned(removed)
	}
}

// Tokens returns the visible token table with values rendered in the
// requested currency.
func (d *Dashboard) Tokens(code string) (*models.TokenListing, error) {
	cur, err := d.currencies.Get(code)
	if err != nil {
		return nil, err
	}

	tokens, version := d.view.Projection()
	listing := &models.TokenListing{
		Loading:      d.feed.IsLoading(),
		Tab:          d.view.Tab(),
		Sort:         d.view.Sort(),
		Currency:     string(cur.Code),
		Version:      version,
		Tokens:       make([]models.DisplayToken, len(tokens)),
		PriceUpdates: make(map[string]models.PriceUpdate),
	}
	for i, t := range tokens {
		listing.Tokens[i] = displayToken(t, cur)
	}

	now := time.Now()
	for id, u := range d.feed.PriceUpdates() {
		if !u.Expired(now) {
			listing.PriceUpdates[id] = u
		}
	}
	return listing, nil
}

func displayToken(t models.Token, cur currency.Currency) models.DisplayToken {
	price := cur.FromUSD(t.Price)
	return models.DisplayToken{
		Token: t,
		Display: models.TokenDisplay{
			Price:          cur.FormatPrice(price),
			PriceValue:     price,
			PriceChange15m: currency.FormatPercentage(t.PriceChange15m),
			PriceChange1h:  currency.FormatPercentage(t.PriceChange1h),
			Volume:         cur.FormatCompact(cur.FromUSD(t.Volume)),
			Liquidity:      cur.FormatCompact(cur.FromUSD(t.Liquidity)),
			Age:            currency.FormatDuration(t.OnChain),
		},
	}
}

// Token returns one live token with its price history.
func (d *Dashboard) Token(id string) (*models.Token, error) {
	t, ok := d.feed.Token(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrTokenNotFound, id)
	}
	return &t, nil
}

func (d *Dashboard) SetTab(tab string) (models.TokenStatus, error) {
	status, err := models.ParseTokenStatus(tab)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTab, err)
	}
	d.view.SetTab(status)
	return status, nil
}

func (d *Dashboard) ToggleSort(column string) (*models.SortDescriptor, error) {
	col, ok := projector.ParseColumn(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return d.view.ToggleSort(col), nil
}

func (d *Dashboard) ClearSort() {
	d.view.ClearSort()
}

func (d *Dashboard) Subscribe() (<-chan models.PriceEvent, func()) {
	return d.feed.Subscribe()
}

// ConnectWallet asks the identity provider for an account and seeds its
// wallet. A provider disconnect still running from an earlier
// DisconnectWallet finishes first, so it cannot end the new session.
func (d *Dashboard) ConnectWallet(ctx context.Context) (models.WalletState, error) {
	d.connMu.Lock()
	defer d.connMu.Unlock()
	d.wg.Wait()

	account, err := d.identity.Connect(ctx)
	if err != nil {
		d.logger.Error("Failed to connect identity", "error", err)
		return models.WalletState{}, fmt.Errorf("failed to connect wallet: %w", err)
	}
	return d.ledger.Connect(account)
}

// DisconnectWallet clears the wallet immediately and tells the identity
// provider in the background. A provider failure is only logged.
func (d *Dashboard) DisconnectWallet() models.WalletState {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	d.ledger.Disconnect()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), identityDisconnectTimeout)
		defer cancel()
		if err := d.identity.Disconnect(ctx); err != nil {
			d.logger.Error("Identity provider disconnect failed", "error", err)
		}
	}()
	return d.ledger.State()
}

// Wallet returns the wallet state. A wallet whose identity session the
// provider no longer reports is cleared first.
func (d *Dashboard) Wallet() models.WalletState {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	state := d.ledger.State()
	if !state.Connected {
		return state
	}
	account, ok := d.identity.Current()
	if ok && validation.NormalizeAccount(account) == state.Account {
		return state
	}
	d.logger.Warn("Identity session ended, clearing wallet", "account", state.Account, "provider_account", account)
	d.ledger.Disconnect()
	return d.ledger.State()
}

func (d *Dashboard) Trade(tokenID string, amount float64, action models.TradeAction) (*models.Trade, models.WalletState, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return nil, d.ledger.State(), fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	return d.ledger.ExecuteTrade(tokenID, amount, action)
}

// AddFunds charges the mock gateway in the requested currency and credits
// the USD equivalent.
func (d *Dashboard) AddFunds(req models.FundsRequest) (*models.FundsResult, error) {
	if !d.ledger.State().Connected {
		return nil, ledger.ErrNotConnected
	}
	cur, err := d.currencies.Get(req.Currency)
	if err != nil {
		return nil, err
	}

	receipt, err := d.payments.Charge(req.Amount, payment.Request{
		Method:     payment.Method(req.Method),
		UPIID:      req.UPIID,
		CardNumber: req.CardNumber,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
		PIN:        req.PIN,
	})
	if err != nil {
		d.logger.Debug("Payment rejected", "method", req.Method, "error", err)
		return nil, err
	}

	credited := cur.ToUSD(req.Amount)
	balance, err := d.ledger.AddFunds(credited, string(receipt.Method))
	if err != nil {
		d.logger.Warn("Wallet disconnected during payment, receipt not credited", "receipt", receipt.ID, "error", err)
		return nil, err
	}

	return &models.FundsResult{
		ReceiptID:   receipt.ID,
		Method:      string(receipt.Method),
		Amount:      req.Amount,
		Currency:    string(cur.Code),
		CreditedUSD: credited,
		USDBalance:  balance,
		Display:     cur.Format(req.Amount),
	}, nil
}

func (d *Dashboard) Profile() (*models.Profile, error) {
	p, ok := d.ledger.Profile()
	if !ok {
		return nil, ledger.ErrNotConnected
	}
	return p, nil
}

func (d *Dashboard) UpdateProfile(patch models.ProfilePatch) (*models.Profile, error) {
	return d.ledger.UpdateProfile(patch)
}

// ResetProfile deletes the stored profile of the connected wallet and
// returns the default one that replaces it.
func (d *Dashboard) ResetProfile() (*models.Profile, error) {
	return d.ledger.ResetProfile()
}

func (d *Dashboard) Currencies() []models.CurrencyInfo {
	list := d.currencies.List()
	out := make([]models.CurrencyInfo, len(list))
	for i, c := range list {
		out[i] = models.CurrencyInfo{
			Code:   string(c.Code),
			Symbol: c.Symbol,
			Rate:   c.Rate.InexactFloat64(),
		}
	}
	return out
}

// cronLogger routes cron's own messages into the application logger.
type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
