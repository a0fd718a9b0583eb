package vault

import (
	"context"
	"sync"
)

// Memory is an in-process slot. It satisfies the Vault contract for tests
// and for hosts that intentionally forget the credential on exit.
type Memory struct {
	mu         sync.Mutex
	credential string
	present    bool
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return "", ErrNoCredential
	}
	return m.credential, nil
}

func (m *Memory) Store(ctx context.Context, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = credential
	m.present = true
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = ""
	m.present = false
	return nil
}
