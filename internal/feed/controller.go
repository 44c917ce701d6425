// Package feed owns the live token list and drives the simulated price ticks.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/tick"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

const (
	DefaultStartupDelay      = 1500 * time.Millisecond
	DefaultTickInterval      = 2 * time.Second
	DefaultUpdateProbability = 0.3

	// subscriberBuffer is the channel capacity of each subscription. A full
	// channel drops events rather than stalling the tick loop.
	subscriberBuffer = 64
)

// State is the lifecycle phase of the controller.
type State int

const (
	StateLoading State = iota
	StateLive
)

func (s State) String() string {
	if s == StateLive {
		return "live"
	}
	return "loading"
}

// Config tunes the feed.
type Config struct {
	StartupDelay      time.Duration
	TickInterval      time.Duration
	UpdateProbability float64
	Seed              uint64
}

// DefaultConfig returns the standard 1.5s startup, 2s ticks, 30% update chance.
func DefaultConfig() Config {
	return Config{
		StartupDelay:      DefaultStartupDelay,
		TickInterval:      DefaultTickInterval,
		UpdateProbability: DefaultUpdateProbability,
		Seed:              1,
	}
}

// Observer receives tick statistics. observability.Metrics implements it.
type Observer interface {
	TickCompleted(mutated, total int, took time.Duration)
	PriceEventDropped()
}

type nopObserver struct{}

func (nopObserver) TickCompleted(int, int, time.Duration) {}
func (nopObserver) PriceEventDropped()                    {}

// Controller owns the live token list. All exported methods are safe for
// concurrent use.
type Controller struct {
	logger   *logger.Logger
	catalog  *catalog.Catalog
	cfg      Config
	observer Observer
	now      func() time.Time

	// mu guards everything below it, including rng and gen.
	mu      sync.RWMutex
	rng     tick.Source
	gen     *tick.Generator
	state   State
	stopped bool
	tokens  []models.Token
	index   map[string]int
	updates map[string]models.PriceUpdate
	version uint64

	subsMu     sync.Mutex
	subs       map[int]chan models.PriceEvent
	nextSub    int
	subsClosed bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithObserver attaches tick metrics.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithSource replaces the seeded PRNG used for the update draw and the tick
// generator.
func WithSource(src tick.Source) Option {
	return func(c *Controller) {
		c.rng = src
		c.gen = tick.NewGenerator(src)
	}
}

// NewController creates a controller in the Loading state.
func NewController(cat *catalog.Catalog, cfg Config, log *logger.Logger, opts ...Option) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.UpdateProbability < 0 || cfg.UpdateProbability > 1 {
		cfg.UpdateProbability = DefaultUpdateProbability
	}
	src := tick.NewSource(cfg.Seed)
	c := &Controller{
		logger:   log,
		catalog:  cat,
		cfg:      cfg,
		observer: nopObserver{},
		now:      time.Now,
		rng:      src,
		gen:      tick.NewGenerator(src),
		state:    StateLoading,
		index:    make(map[string]int),
		updates:  make(map[string]models.PriceUpdate),
		subs:     make(map[int]chan models.PriceEvent),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs the startup delay and then the tick loop until ctx is done or
// Stop is called. Calling Start twice has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.run(ctx)
	c.logger.Info("Feed started", "startup_delay", c.cfg.StartupDelay, "tick_interval", c.cfg.TickInterval)
}

func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()

	if c.cfg.StartupDelay > 0 {
		timer := time.NewTimer(c.cfg.StartupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
	c.Activate()

	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Step()
		}
	}
}

// Stop cancels the tick loop and waits for it to exit. No tick runs after
// Stop returns. Subscriptions are closed.
func (c *Controller) Stop() {
	c.runMu.Lock()
	cancel := c.cancel
	c.runMu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()

	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.subsMu.Lock()
	c.subsClosed = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()
	c.logger.Info("Feed stopped")
}

// Activate performs the Loading to Live transition, seeding the token list
// from the catalog. It only has an effect the first time.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLive || c.stopped {
		return
	}
	now := c.now()
	c.tokens = c.catalog.Tokens()
	for i := range c.tokens {
		c.index[c.tokens[i].ID] = i
		if len(c.tokens[i].PriceHistory) == 0 {
			c.tokens[i].PriceHistory = []models.PricePoint{{Time: now.UnixMilli(), Price: c.tokens[i].Price}}
		}
	}
	c.state = StateLive
	c.version++
	c.logger.Info("Feed is live", "tokens", len(c.tokens))
}

// Step runs one tick: every token is independently mutated with the
// configured probability. It returns the number of mutated tokens and does
// nothing unless the feed is Live.
func (c *Controller) Step() int {
	started := time.Now()

	c.mu.Lock()
	if c.state != StateLive || c.stopped {
		c.mu.Unlock()
		return 0
	}
	now := c.now()
	var events []models.PriceEvent
	for i, token := range c.tokens {
		if c.rng.Float64() >= c.cfg.UpdateProbability {
			continue
		}
		update := c.gen.Next(token, now)
		oldPrice := token.Price
		c.tokens[i] = c.gen.Apply(token, update)

		direction := models.DirectionDown
		if update.Price > oldPrice {
			direction = models.DirectionUp
		}
		c.updates[token.ID] = models.PriceUpdate{Direction: direction, Timestamp: now}
		events = append(events, models.PriceEvent{
			TokenID:   token.ID,
			Direction: direction,
			OldPrice:  oldPrice,
			Price:     update.Price,
			Timestamp: now,
		})
	}
	if len(events) > 0 {
		c.version++
	}
	total := len(c.tokens)
	c.mu.Unlock()

	c.broadcast(events)
	c.observer.TickCompleted(len(events), total, time.Since(started))
	c.logger.Debug("Tick completed", "mutated", len(events), "total", total)
	return len(events)
}

func (c *Controller) broadcast(events []models.PriceEvent) {
	if len(events) == 0 {
		return
	}
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		for _, ev := range events {
			select {
			case ch <- ev:
			default:
				c.observer.PriceEventDropped()
			}
		}
	}
}

// Subscribe returns a channel of price events and a function that ends the
// subscription. The channel is closed by the cancel function or by Stop.
func (c *Controller) Subscribe() (<-chan models.PriceEvent, func()) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	ch := make(chan models.PriceEvent, subscriberBuffer)
	if c.subsClosed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			if existing, ok := c.subs[id]; ok {
				close(existing)
				delete(c.subs, id)
			}
		})
	}
	return ch, cancel
}

// State returns the lifecycle phase.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsLoading reports whether the feed has not gone live yet.
func (c *Controller) IsLoading() bool {
	return c.State() == StateLoading
}

// Version increases every time the token list changes.
func (c *Controller) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Tokens returns a deep copy of the live list in catalog order.
func (c *Controller) Tokens() []models.Token {
	tokens, _ := c.Snapshot()
	return tokens
}

// Snapshot returns a deep copy of the live list together with its version.
func (c *Controller) Snapshot() ([]models.Token, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Token, len(c.tokens))
	for i, t := range c.tokens {
		out[i] = t.Clone()
	}
	return out, c.version
}

// Token returns the live state of one token.
func (c *Controller) Token(id string) (models.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return models.Token{}, false
	}
	return c.tokens[i].Clone(), true
}

// Quote returns the current USD price and ticker of a token. While the feed
// is still loading the catalog seed is quoted.
func (c *Controller) Quote(id string) (price float64, ticker string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, live := c.index[id]; live {
		return c.tokens[i].Price, c.tokens[i].Ticker, true
	}
	seed, found := c.catalog.Get(id)
	if !found {
		return 0, "", false
	}
	return seed.Price, seed.Ticker, true
}

// PriceUpdates returns a copy of the accumulated update map.
func (c *Controller) PriceUpdates() map[string]models.PriceUpdate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.PriceUpdate, len(c.updates))
	for id, u := range c.updates {
		out[id] = u
	}
	return out
}

// PruneUpdates removes updates whose display window has passed at now and
// returns how many were removed.
func (c *Controller) PruneUpdates(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, u := range c.updates {
		if u.Expired(now) {
			delete(c.updates, id)
			removed++
		}
	}
	return removed
}
