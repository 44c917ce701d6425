// Package projector derives the visible, ordered token list for a tab and
// sort descriptor.
package projector

import (
	"math"
	"sort"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

// sortKey is a comparable value extracted from a token field. A key with
// defined=false compares equal to everything.
type sortKey struct {
	defined bool
	num     float64
	str     string
	isStr   bool
}

func numKey(v float64) sortKey {
	if math.IsNaN(v) {
		return sortKey{}
	}
	return sortKey{defined: true, num: v}
}

func strKey(v string) sortKey {
	return sortKey{defined: true, str: v, isStr: true}
}

func keyFor(t *models.Token, column models.SortColumn) sortKey {
	switch column {
	case models.ColumnName:
		return strKey(t.Name)
	case models.ColumnTicker:
		return strKey(t.Ticker)
	case models.ColumnPrice:
		return numKey(t.Price)
	case models.ColumnPriceChange15m:
		return numKey(t.PriceChange15m)
	case models.ColumnPriceChange1h:
		return numKey(t.PriceChange1h)
	case models.ColumnVolume:
		return numKey(t.Volume)
	case models.ColumnLiquidity:
		return numKey(t.Liquidity)
	case models.ColumnOnChain:
		return numKey(t.OnChain)
	case models.ColumnIndex:
		// row numbers carry no order of their own
		return numKey(0)
	default:
		return sortKey{}
	}
}

// compare returns -1, 0 or 1. Undefined or mismatched keys compare equal.
func compare(a, b sortKey) int {
	if !a.defined || !b.defined || a.isStr != b.isStr {
		return 0
	}
	if a.isStr {
		switch {
		case a.str < b.str:
			return -1
		case a.str > b.str:
			return 1
		}
		return 0
	}
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	}
	return 0
}

// Project returns the tokens whose status equals tab, ordered by desc. A nil
// desc keeps input order. The sort is stable, and the input is not modified.
func Project(tokens []models.Token, tab models.TokenStatus, desc *models.SortDescriptor) []models.Token {
	filtered := make([]models.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Status == tab {
			filtered = append(filtered, t)
		}
	}
	if desc == nil {
		return filtered
	}

	keys := make([]sortKey, len(filtered))
	for i := range filtered {
		keys[i] = keyFor(&filtered[i], desc.Column)
	}
	order := make([]int, len(filtered))
	for i := range order {
		order[i] = i
	}
	sign := 1
	if desc.Direction == models.Descending {
		sign = -1
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sign*compare(keys[order[i]], keys[order[j]]) < 0
	})

	out := make([]models.Token, len(filtered))
	for i, idx := range order {
		out[i] = filtered[idx]
	}
	return out
}

// Toggle applies a header click to the current descriptor: the same column
// flips direction, a new column starts descending.
func Toggle(current *models.SortDescriptor, column models.SortColumn) *models.SortDescriptor {
	if current != nil && current.Column == column {
		dir := models.Ascending
		if current.Direction == models.Ascending {
			dir = models.Descending
		}
		return &models.SortDescriptor{Column: column, Direction: dir}
	}
	return &models.SortDescriptor{Column: column, Direction: models.Descending}
}

// ParseColumn validates a column name.
func ParseColumn(s string) (models.SortColumn, bool) {
	switch c := models.SortColumn(s); c {
	case models.ColumnIndex, models.ColumnName, models.ColumnTicker, models.ColumnPrice,
		models.ColumnPriceChange15m, models.ColumnPriceChange1h, models.ColumnVolume,
		models.ColumnLiquidity, models.ColumnOnChain:
		return c, true
	}
	return "", false
}
