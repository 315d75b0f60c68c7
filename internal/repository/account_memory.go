package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts []domain.Account
	now      func() time.Time
}

// NewMemoryAccountRepository returns an in-memory repository. Records live for the
// lifetime of the process.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{now: time.Now}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}
	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(account.ID)
	if idx < 0 {
		return ErrNotFound
	}
	account.CreatedAt = r.accounts[idx].CreatedAt
	account.UpdatedAt = r.now()
	r.accounts[idx] = *account
	return nil
}

func (r *memoryAccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	r.accounts = append(r.accounts[:idx], r.accounts[idx+1:]...)
	return nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	account := r.accounts[idx]
	return &account, nil
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Account{}
	for _, account := range r.accounts {
		if account.Email == email {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *memoryAccountRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Account{}, r.accounts...), nil
}

func (r *memoryAccountRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}

func (r *memoryAccountRepository) indexOf(id string) int {
	for i := range r.accounts {
		if r.accounts[i].ID == id {
			return i
		}
	}
	return -1
}
