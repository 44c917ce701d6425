// Package identity is the wallet-connect provider. The mock provider issues a
// random 0x-prefixed 40-hex account per connection.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/tokenpulse/tokenpulse/pkg/validation"
)

// Provider connects and disconnects the user's wallet identity.
type Provider interface {
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	Current() (account string, connected bool)
}

type MockProvider struct {
	entropy io.Reader

	mu      sync.Mutex
	account string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{entropy: rand.Reader}
}

// NewMockProviderFrom draws accounts from r, for reproducible tests.
func NewMockProviderFrom(r io.Reader) *MockProvider {
	return &MockProvider{entropy: r}
}

// Connect issues a fresh account, replacing any connected one.
func (p *MockProvider) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	buf := make([]byte, validation.AccountHexLength/2)
	if _, err := io.ReadFull(p.entropy, buf); err != nil {
		return "", fmt.Errorf("failed to generate account: %w", err)
	}
	account := "0x" + hex.EncodeToString(buf)

	p.mu.Lock()
	p.account = account
	p.mu.Unlock()
	return account, nil
}

func (p *MockProvider) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.account = ""
	p.mu.Unlock()
	return nil
}

func (p *MockProvider) Current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.account, p.account != ""
}
