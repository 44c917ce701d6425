package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	seen := map[models.TokenStatus]int{}
	for _, tok := range c.Tokens() {
		assert.Greater(t, tok.Price, 0.0, tok.ID)
		seen[tok.Status]++
	}
	for _, status := range models.TokenStatuses {
		assert.NotZero(t, seen[status], "no tokens for tab %s", status)
	}

	usdc, ok := c.Get("usd-coin")
	require.True(t, ok)
	assert.True(t, usdc.Stablecoin)
}

func TestTokensAreCopies(t *testing.T) {
	c, err := New([]models.Token{
		{ID: "a", Price: 1, Status: models.StatusNewPairs, PriceHistory: []models.PricePoint{{Time: 1, Price: 1}}},
	})
	require.NoError(t, err)

	tokens := c.Tokens()
	tokens[0].Price = 99
	tokens[0].PriceHistory[0].Price = 99

	again, _ := c.Get("a")
	assert.Equal(t, 1.0, again.Price)
	assert.Equal(t, 1.0, again.PriceHistory[0].Price)
}

func TestNewRejectsInvalidSeeds(t *testing.T) {
	tests := []struct {
		name  string
		seeds []models.Token
	}{
		{"missing id", []models.Token{{Price: 1, Status: models.StatusNewPairs}}},
		{"duplicate id", []models.Token{
			{ID: "a", Price: 1, Status: models.StatusNewPairs},
			{ID: "a", Price: 2, Status: models.StatusMigrated},
		}},
		{"zero price", []models.Token{{ID: "a", Status: models.StatusNewPairs}}},
		{"bad status", []models.Token{{ID: "a", Price: 1, Status: "Graduated"}}},
		{"bad icon", []models.Token{{ID: "a", Price: 1, Status: models.StatusNewPairs, Icon: "svg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.seeds)
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `tokens:
  - id: alpha
    name: Alpha
    ticker: ALP
    price: 0.5
    volume: 1000
    on_chain: 3
    status: New pairs
  - id: stable
    name: Stable
    ticker: STB
    icon: dollar
    price: 1
    status: Migrated
    stablecoin: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	tokens := c.Tokens()
	assert.Equal(t, "alpha", tokens[0].ID)
	assert.Equal(t, models.IconGeneric, tokens[0].Icon)
	assert.Equal(t, 3.0, tokens[0].OnChain)
	assert.True(t, tokens[1].Stablecoin)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
