package wallets

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/server/models"
)

// MemoryStore is an in-memory Store for development and tests. Production
// deployments wire the real keystore behind the same interface.
type MemoryStore struct {
	mu      sync.RWMutex
	wallets map[string]*models.Wallet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{wallets: make(map[string]*models.Wallet)}
}

func (s *MemoryStore) Create(ctx context.Context, settings map[string]any, mode models.WalletKeyMode) (*models.Wallet, error) {
	name, _ := settings[SettingWalletName].(string)
	if name == "" {
		return nil, fmt.Errorf("wallet settings missing %q", SettingWalletName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.wallets {
		if w.Name == name {
			return nil, common.ErrDuplicateName
		}
	}

	w := &models.Wallet{
		ID:                  uuid.NewString(),
		Name:                name,
		RequiresExternalKey: mode == models.WalletKeyUnmanaged,
		Settings:            settings,
	}
	if mode == models.WalletKeyManaged {
		w.Key, _ = settings[SettingWalletKey].(string)
	}
	s.wallets[w.ID] = w
	return w, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return w, nil
}

func (s *MemoryStore) QueryByName(ctx context.Context, name string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.wallets {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.wallets, id)
	return nil
}
