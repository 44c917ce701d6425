// Package tick produces randomized next states for simulated tokens.
package tick

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

const (
	// DefaultMaxMove bounds the per-tick relative price move (±2%).
	DefaultMaxMove = 0.02
	// DefaultHistoryLimit caps priceHistory samples kept per token.
	DefaultHistoryLimit = 60
	// MinPrice is the floor a price can never go below.
	MinPrice = 1e-12

	minPercentChange = -100.0
	maxPercentChange = 999.0
)

// Source is the randomness the generator draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Update is the partial next state of a token produced by one tick.
type Update struct {
	Price          float64
	PriceChange15m float64
	PriceChange1h  float64
	Volume         float64
	Liquidity      float64
	Sample         models.PricePoint
}

// Generator computes token updates. It is not safe for concurrent use because
// the underlying source is not.
type Generator struct {
	rng          Source
	maxMove      float64
	historyLimit int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxMove sets the maximum relative price move per tick.
func WithMaxMove(m float64) Option {
	return func(g *Generator) {
		if m > 0 && m < 1 {
			g.maxMove = m
		}
	}
}

// WithHistoryLimit sets how many history samples Apply keeps.
func WithHistoryLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.historyLimit = n
		}
	}
}

func NewGenerator(rng Source, opts ...Option) *Generator {
	g := &Generator{
		rng:          rng,
		maxMove:      DefaultMaxMove,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// symmetric returns a value uniformly distributed in [-1, 1).
func (g *Generator) symmetric() float64 {
	return g.rng.Float64()*2 - 1
}

// Next computes the next state of t at time now. t is not modified.
func (g *Generator) Next(t models.Token, now time.Time) Update {
	move := g.symmetric() * g.maxMove

	price := t.Price * (1 + move)
	if !(price > MinPrice) || math.IsInf(price, 0) {
		price = math.Max(t.Price, MinPrice)
	}

	pct := move * 100
	change15m := clampPercent(t.PriceChange15m + pct)
	change1h := clampPercent(t.PriceChange1h + pct/4)

	// volume only accumulates, liquidity drifts with the price
	volume := t.Volume * (1 + g.rng.Float64()*0.01)
	liquidity := t.Liquidity * (1 + move/2)
	if liquidity < 0 {
		liquidity = 0
	}

	return Update{
		Price:          price,
		PriceChange15m: change15m,
		PriceChange1h:  change1h,
		Volume:         volume,
		Liquidity:      liquidity,
		Sample:         models.PricePoint{Time: now.UnixMilli(), Price: price},
	}
}

// Apply merges u into a copy of t, appending the history sample and trimming
// history to the generator's limit.
func (g *Generator) Apply(t models.Token, u Update) models.Token {
	next := t.Clone()
	next.Price = u.Price
	next.PriceChange15m = u.PriceChange15m
	next.PriceChange1h = u.PriceChange1h
	next.Volume = u.Volume
	next.Liquidity = u.Liquidity
	next.PriceHistory = append(next.PriceHistory, u.Sample)
	if over := len(next.PriceHistory) - g.historyLimit; over > 0 {
		next.PriceHistory = append([]models.PricePoint(nil), next.PriceHistory[over:]...)
	}
	return next
}

func clampPercent(v float64) float64 {
	return math.Max(minPercentChange, math.Min(maxPercentChange, v))
}
