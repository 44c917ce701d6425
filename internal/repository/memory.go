package repository

import (
	"sync"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

// MemoryDB is a process-local profile store used when no database is
// configured and in tests.
type MemoryDB struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{profiles: make(map[string]models.Profile)}
}

func (db *MemoryDB) GetProfile(account string) (*models.Profile, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.profiles[account]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (db *MemoryDB) SaveProfile(profile *models.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profiles[profile.Account] = *profile
	return nil
}

func (db *MemoryDB) DeleteProfile(account string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.profiles, account)
	return nil
}

func (db *MemoryDB) Close() error { return nil }
