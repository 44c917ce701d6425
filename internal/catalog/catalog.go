// Package catalog holds the static seed list of tokens the feed starts from.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

// Catalog is an ordered, validated list of token seeds.
type Catalog struct {
	tokens []models.Token
	index  map[string]int
}

type catalogFile struct {
	Tokens []models.Token `yaml:"tokens"`
}

// New validates seeds and builds a catalog preserving their order.
func New(seeds []models.Token) (*Catalog, error) {
	c := &Catalog{
		tokens: make([]models.Token, 0, len(seeds)),
		index:  make(map[string]int, len(seeds)),
	}
	for i, seed := range seeds {
		if seed.ID == "" {
			return nil, fmt.Errorf("token #%d: id is required", i)
		}
		if _, dup := c.index[seed.ID]; dup {
			return nil, fmt.Errorf("token %s: duplicate id", seed.ID)
		}
		if !(seed.Price > 0) {
			return nil, fmt.Errorf("token %s: price must be positive", seed.ID)
		}
		if _, err := models.ParseTokenStatus(string(seed.Status)); err != nil {
			return nil, fmt.Errorf("token %s: %w", seed.ID, err)
		}
		if seed.Icon == "" {
			seed.Icon = models.IconGeneric
		}
		if !seed.Icon.Valid() {
			return nil, fmt.Errorf("token %s: unknown icon %q", seed.ID, seed.Icon)
		}
		c.index[seed.ID] = len(c.tokens)
		c.tokens = append(c.tokens, seed.Clone())
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultTokens)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a YAML catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Tokens) == 0 {
		return nil, fmt.Errorf("catalog %s has no tokens", path)
	}
	return New(file.Tokens)
}

// Tokens returns deep copies of the seeds in catalog order.
func (c *Catalog) Tokens() []models.Token {
	out := make([]models.Token, len(c.tokens))
	for i, t := range c.tokens {
		out[i] = t.Clone()
	}
	return out
}

// Get returns the seed with the given id.
func (c *Catalog) Get(id string) (models.Token, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Token{}, false
	}
	return c.tokens[i].Clone(), true
}

// Len returns the number of tokens.
func (c *Catalog) Len() int {
	return len(c.tokens)
}
