package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/repository"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

const testAccount = "0x1234567890abcdef1234567890abcdef12345678"

type staticPrices map[string]float64

func (p staticPrices) Quote(id string) (float64, string, bool) {
	price, ok := p[id]
	return price, "T" + id, ok
}

type recordingNotifier struct {
	ch chan *models.Notification
}

func (n *recordingNotifier) SendNotification(notification *models.Notification) {
	n.ch <- notification
}

type failingRepo struct {
	*repository.MemoryDB
}

func (failingRepo) SaveProfile(*models.Profile) error { return errors.New("store unavailable") }

func testLedger(t *testing.T, prices staticPrices, opts ...Option) *Ledger {
	t.Helper()
	cat, err := catalog.New([]models.Token{
		{ID: "tok", Name: "Tok", Price: 100, Status: models.StatusNewPairs},
		{ID: "cheap", Name: "Cheap", Price: 50, Status: models.StatusNewPairs},
		{ID: "usd-coin", Name: "USD Coin", Price: 1, Status: models.StatusMigrated, Stablecoin: true},
	})
	require.NoError(t, err)
	return New(cat, prices, repository.NewMemoryDB(), Config{Seed: 7}, logger.NewNopLogger(), opts...)
}

func TestConnectSeedsWallet(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 100})

	state, err := l.Connect("0x1234567890ABCDEF1234567890abcdef12345678")
	require.NoError(t, err)
	assert.True(t, state.Connected)
	assert.Equal(t, testAccount, state.Account)
	assert.Equal(t, float64(DefaultSeedUSD), state.USDBalance)
	assert.Greater(t, state.TokenBalances["tok"], 0.0)
	assert.Greater(t, state.TokenBalances["cheap"], 0.0)
	_, hasStable := state.TokenBalances["usd-coin"]
	assert.False(t, hasStable, "stablecoins are not seeded")

	l.Disconnect()
	again, err := l.Connect(testAccount)
	require.NoError(t, err)
	assert.Equal(t, state.TokenBalances, again.TokenBalances, "seeding is reproducible")
}

func TestConnectRejectsMalformedAccount(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.Connect("not-an-account")
	assert.Error(t, err)
	assert.False(t, l.State().Connected)
}

func TestBuyDebitsCash(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 100})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(10_000, nil)

	trade, state, err := l.ExecuteTrade("tok", 2, models.ActionBuy)
	require.NoError(t, err)
	assert.Equal(t, 200.0, trade.Value)
	assert.Equal(t, 100.0, trade.Price)
	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, 9_800.0, state.USDBalance)
	assert.Equal(t, 2.0, state.TokenBalances["tok"])
	assert.Equal(t, state, l.State())
}

func TestInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	l := testLedger(t, staticPrices{"cheap": 50})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(100, nil)
	before := l.State()

	_, state, err := l.ExecuteTrade("cheap", 3, models.ActionBuy)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "InsufficientFunds", Kind(err))
	assert.Equal(t, before, state)
	assert.Equal(t, before, l.State())
}

func TestSellMoreThanHeld(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 100})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(0, map[string]float64{"tok": 2})
	before := l.State()

	_, _, err = l.ExecuteTrade("tok", 5, models.ActionSell)
	assert.ErrorIs(t, err, ErrInsufficientTokenBalance)
	assert.Equal(t, before, l.State())
}

func TestBuyThenSellRoundTripsExactly(t *testing.T) {
	prices := staticPrices{"tok": 0.3}
	l := testLedger(t, prices)
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(1234.56, map[string]float64{"tok": 0.7})
	before := l.State()

	_, _, err = l.ExecuteTrade("tok", 0.1, models.ActionBuy)
	require.NoError(t, err)
	_, _, err = l.ExecuteTrade("tok", 0.1, models.ActionSell)
	require.NoError(t, err)

	after := l.State()
	assert.Equal(t, before.USDBalance, after.USDBalance)
	assert.Equal(t, before.TokenBalances["tok"], after.TokenBalances["tok"])
}

func TestTradeErrors(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 100})

	_, _, err := l.ExecuteTrade("tok", 1, models.ActionBuy)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = l.Connect(testAccount)
	require.NoError(t, err)

	_, _, err = l.ExecuteTrade("missing", 1, models.ActionBuy)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, _, err = l.ExecuteTrade("tok", 1, models.TradeAction("hold"))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestConcurrentBuysNeverOverdraw(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 1})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(50, nil)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := l.ExecuteTrade("tok", 1, models.ActionBuy); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	state := l.State()
	assert.Equal(t, 50, ok)
	assert.Equal(t, 0.0, state.USDBalance)
	assert.Equal(t, 50.0, state.TokenBalances["tok"])
}

func TestDisconnectClearsState(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 100})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)

	l.Disconnect()
	state := l.State()
	assert.False(t, state.Connected)
	assert.Empty(t, state.Account)
	assert.Zero(t, state.USDBalance)
	assert.Empty(t, state.TokenBalances)
	_, ok := l.Profile()
	assert.False(t, ok)

	l.Disconnect()
	assert.False(t, l.State().Connected, "disconnect is idempotent")
}

func TestAddFunds(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)

	balance, err := l.AddFunds(250.5, "UPI")
	require.NoError(t, err)
	assert.Equal(t, 10_250.5, balance)
	assert.Equal(t, 10_250.5, l.State().USDBalance)
}

func TestAddFundsRequiresConnection(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.Disconnect()

	_, err = l.AddFunds(5, "UPI")
	assert.ErrorIs(t, err, ErrNotConnected)
	state := l.State()
	assert.False(t, state.Connected)
	assert.Zero(t, state.USDBalance, "a disconnected wallet is never credited")
}

func TestConcurrentTradeStatesAreConsistent(t *testing.T) {
	l := testLedger(t, staticPrices{"tok": 1})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	l.setBalancesForTest(1_000, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, state, err := l.ExecuteTrade("tok", 1, models.ActionBuy)
			if assert.NoError(t, err) {
				assert.Equal(t, 1_000.0, state.USDBalance+state.TokenBalances["tok"],
					"cash and holdings in a trade result come from one snapshot")
			}
		}()
	}
	wg.Wait()
}

func TestDepositNotificationCarriesEmail(t *testing.T) {
	n := &recordingNotifier{ch: make(chan *models.Notification, 1)}
	l := testLedger(t, staticPrices{}, WithNotifier(n))
	_, err := l.Connect(testAccount)
	require.NoError(t, err)
	email := "ada@example.com"
	_, err = l.UpdateProfile(models.ProfilePatch{Email: &email})
	require.NoError(t, err)

	_, err = l.AddFunds(20, "Card")
	require.NoError(t, err)

	select {
	case got := <-n.ch:
		assert.Equal(t, models.NotificationDeposit, got.Kind)
		assert.Equal(t, email, got.Email)
		assert.Equal(t, 20.0, got.Amount)
		assert.Equal(t, "Card", got.Method)
	case <-time.After(time.Second):
		t.Fatal("expected a deposit notification")
	}
}

func TestResetProfile(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.ResetProfile()
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = l.Connect(testAccount)
	require.NoError(t, err)
	name := "Ada"
	_, err = l.UpdateProfile(models.ProfilePatch{Name: &name})
	require.NoError(t, err)

	fresh, err := l.ResetProfile()
	require.NoError(t, err)
	assert.Equal(t, "Trader 0x1234...5678", fresh.Name)

	p, ok := l.Profile()
	require.True(t, ok)
	assert.Equal(t, fresh.Name, p.Name)

	_, err = l.profiles.GetProfile(testAccount)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestTradeNotification(t *testing.T) {
	n := &recordingNotifier{ch: make(chan *models.Notification, 1)}
	l := testLedger(t, staticPrices{"tok": 100}, WithNotifier(n))
	_, err := l.Connect(testAccount)
	require.NoError(t, err)

	trade, _, err := l.ExecuteTrade("tok", 1, models.ActionBuy)
	require.NoError(t, err)

	select {
	case got := <-n.ch:
		assert.Equal(t, models.NotificationTrade, got.Kind)
		assert.Equal(t, trade.ID, got.Trade.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a trade notification")
	}
}

func TestProfileCreatedAndUpdated(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.Connect(testAccount)
	require.NoError(t, err)

	p, ok := l.Profile()
	require.True(t, ok)
	assert.Equal(t, testAccount, p.Account)
	assert.Equal(t, "Trader 0x1234...5678", p.Name)

	stored, err := l.profiles.GetProfile(testAccount)
	require.NoError(t, err)
	assert.Equal(t, p.Name, stored.Name)

	name, country := "Ada", "GB"
	updated, err := l.UpdateProfile(models.ProfilePatch{Name: &name, Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "GB", updated.Country)

	stored, err = l.profiles.GetProfile(testAccount)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
}

func TestUpdateProfileKeepsMemoryOnStoreFailure(t *testing.T) {
	l := testLedger(t, staticPrices{})
	l.profiles = failingRepo{repository.NewMemoryDB()}
	_, err := l.Connect(testAccount)
	require.NoError(t, err)

	name := "Grace"
	updated, err := l.UpdateProfile(models.ProfilePatch{Name: &name})
	assert.Error(t, err)
	require.NotNil(t, updated)
	p, _ := l.Profile()
	assert.Equal(t, "Grace", p.Name)
}

func TestUpdateProfileRequiresConnection(t *testing.T) {
	l := testLedger(t, staticPrices{})
	_, err := l.UpdateProfile(models.ProfilePatch{})
	assert.ErrorIs(t, err, ErrNotConnected)
}
