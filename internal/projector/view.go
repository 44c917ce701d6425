package projector

import (
	"sync"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

// Source is the live token list the view projects. feed.Controller
// implements it.
type Source interface {
	Version() uint64
	Snapshot() ([]models.Token, uint64)
}

// DefaultSort is the descriptor a fresh view starts with.
var DefaultSort = models.SortDescriptor{Column: models.ColumnVolume, Direction: models.Descending}

// View holds the active tab and sort descriptor and memoizes the projection.
// The projection is recomputed exactly when the source version, the tab or
// the descriptor changed since the last computation.
type View struct {
	src Source

	mu   sync.Mutex
	tab  models.TokenStatus
	desc *models.SortDescriptor

	cached     []models.Token
	cachedOK   bool
	cachedVer  uint64
	cachedTab  models.TokenStatus
	cachedDesc *models.SortDescriptor
	recomputes int
}

func NewView(src Source) *View {
	d := DefaultSort
	return &View{
		src:  src,
		tab:  models.StatusNewPairs,
		desc: &d,
	}
}

// Tab returns the active status tab.
func (v *View) Tab() models.TokenStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

// SetTab changes the active status tab.
func (v *View) SetTab(tab models.TokenStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tab = tab
}

// Sort returns a copy of the active descriptor, nil when unsorted.
func (v *View) Sort() *models.SortDescriptor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyDesc(v.desc)
}

// ToggleSort applies a header click and returns the new descriptor.
func (v *View) ToggleSort(column models.SortColumn) *models.SortDescriptor {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.desc = Toggle(v.desc, column)
	return copyDesc(v.desc)
}

// ClearSort removes the descriptor so the natural list order is shown.
func (v *View) ClearSort() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.desc = nil
}

// Projection returns the visible ordered tokens and the source version they
// were computed from. The returned slice is owned by the caller; token
// histories are shared and must be treated as read-only.
func (v *View) Projection() ([]models.Token, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.cachedOK || v.src.Version() != v.cachedVer || v.tab != v.cachedTab || !sameDesc(v.desc, v.cachedDesc) {
		tokens, ver := v.src.Snapshot()
		v.cached = Project(tokens, v.tab, v.desc)
		v.cachedVer = ver
		v.cachedTab = v.tab
		v.cachedDesc = copyDesc(v.desc)
		v.cachedOK = true
		v.recomputes++
	}

	out := make([]models.Token, len(v.cached))
	copy(out, v.cached)
	return out, v.cachedVer
}

func copyDesc(d *models.SortDescriptor) *models.SortDescriptor {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func sameDesc(a, b *models.SortDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
