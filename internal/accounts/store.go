package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore implements AccountStore over a map keyed by account id.
// Its contents live only as long as the process.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	now      func() time.Time
}

// NewMemoryStore creates an empty account table
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		now:      time.Now,
	}
}

// CreateAccount inserts a new account. The id must not be present yet.
func (s *MemoryStore) CreateAccount(ctx context.Context, account *Account) (*Account, error) {
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("account id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return nil, NewAccountAlreadyExistsError(account.ID)
	}

	now := s.now()
	stored := *account
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.accounts[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetAccount returns a copy of the stored account
func (s *MemoryStore) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, NewAccountNotFoundError(accountID)
	}

	result := *account
	return &result, nil
}

// UpdateAccount applies the mutable fields of patch. An empty display name
// resets it to the account id.
func (s *MemoryStore) UpdateAccount(ctx context.Context, accountID string, patch Patch) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, NewAccountNotFoundError(accountID)
	}

	if patch.DisplayName != nil {
		if *patch.DisplayName == "" {
			account.DisplayName = account.ID
		} else {
			account.DisplayName = *patch.DisplayName
		}
	}
	if patch.Note != nil {
		account.Note = *patch.Note
	}
	account.UpdatedAt = s.now()

	result := *account
	return &result, nil
}

// DeleteAccount removes the account from the table
func (s *MemoryStore) DeleteAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return NewAccountNotFoundError(accountID)
	}
	delete(s.accounts, accountID)
	return nil
}

// Count returns the number of accounts currently stored
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Name implements health.Checker
func (s *MemoryStore) Name() string {
	return "accounts"
}

// IsCritical implements health.Checker
func (s *MemoryStore) IsCritical() bool {
	return true
}

// HealthCheck implements health.Checker. The table is healthy once allocated.
func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accounts == nil {
		return fmt.Errorf("account table not initialized")
	}
	return nil
}
