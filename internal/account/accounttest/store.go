// Package accounttest provides an in-memory account.Store for tests.
package accounttest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WilliamDu1981/angular2club/internal/account"
)

// FakeStore implements account.Store with a map and exposes error
// fields for behavior injection.
type FakeStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account

	ExistsErr error
	CreateErr error
	FindErr   error
	UpdateErr error

	// Delay hooks let join tests force a branch to finish last.
	FindByOpenIDDelay time.Duration
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		accounts: make(map[string]*account.Account),
	}
}

func (f *FakeStore) Exists(ctx context.Context, handle string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ExistsErr != nil {
		return false, f.ExistsErr
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Account, handle) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeStore) Create(ctx context.Context, a *account.Account) (*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	now := time.Now()
	stored := *a
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.accounts[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (f *FakeStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *FakeStore) FindByHandle(ctx context.Context, handle string) (*account.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Account, handle) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *FakeStore) FindByOpenID(ctx context.Context, openID string) (*account.Account, error) {
	if f.FindByOpenIDDelay > 0 {
		time.Sleep(f.FindByOpenIDDelay)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	for _, a := range f.accounts {
		if a.OpenID != "" && a.OpenID == openID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *FakeStore) Update(ctx context.Context, id string, ch account.Changes) (*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	if ch.NickName != nil {
		a.NickName = *ch.NickName
	}
	if ch.IsActive != nil {
		a.IsActive = *ch.IsActive
	}
	if ch.Gender != nil {
		a.Gender = *ch.Gender
	}
	if ch.Avatar != nil {
		a.Avatar = *ch.Avatar
	}
	if ch.Province != nil {
		a.Province = *ch.Province
	}
	if ch.City != nil {
		a.City = *ch.City
	}
	a.UpdatedAt = time.Now()

	copied := *a
	return &copied, nil
}

// Len returns the number of stored accounts.
func (f *FakeStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.accounts)
}

// Seed inserts an account as-is, keeping its ID when set.
func (f *FakeStore) Seed(a *account.Account) *account.Account {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *a
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	f.accounts[stored.ID] = &stored

	copied := stored
	return &copied
}
