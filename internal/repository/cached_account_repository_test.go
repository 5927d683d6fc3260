package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

type mockAccountCache struct {
	cacheAccountFn     func(ctx context.Context, account *domain.Account) error
	getCachedAccountFn func(ctx context.Context, customerID uuid.UUID) (*domain.Account, error)
	invalidateFn       func(ctx context.Context, customerID uuid.UUID) error
}

func (m *mockAccountCache) CacheAccount(ctx context.Context, account *domain.Account) error {
	return m.cacheAccountFn(ctx, account)
}

func (m *mockAccountCache) GetCachedAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	return m.getCachedAccountFn(ctx, customerID)
}

func (m *mockAccountCache) InvalidateCustomerAccount(ctx context.Context, customerID uuid.UUID) error {
	return m.invalidateFn(ctx, customerID)
}

// mapCache простой кеш в памяти для проверки сквозного поведения
func mapCache() (*mockAccountCache, map[uuid.UUID]domain.Account) {
	data := make(map[uuid.UUID]domain.Account)
	return &mockAccountCache{
		cacheAccountFn: func(ctx context.Context, account *domain.Account) error {
			data[account.CustomerID] = *account
			return nil
		},
		getCachedAccountFn: func(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
			if a, ok := data[customerID]; ok {
				return &a, nil
			}
			return nil, nil
		},
		invalidateFn: func(ctx context.Context, customerID uuid.UUID) error {
			delete(data, customerID)
			return nil
		},
	}, data
}

func TestCachedAccountRepositoryReadThrough(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	store := NewInMemoryAccountRepository(log)
	owner := uuid.New()

	if _, err := store.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: owner, AccountType: "Savings"}, createdStamp); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cache, data := mapCache()
	repo := NewCachedAccountRepository(store, cache, log)

	if _, err := repo.FindByCustomerID(ctx, owner); err != nil {
		t.Fatalf("FindByCustomerID: %v", err)
	}
	if _, ok := data[owner]; !ok {
		t.Fatal("expected account to be cached after read")
	}

	// Повторное чтение идет из кеша, даже если хранилище пусто
	if err := store.DeleteByCustomerID(ctx, owner); err != nil {
		t.Fatalf("DeleteByCustomerID: %v", err)
	}
	got, err := repo.FindByCustomerID(ctx, owner)
	if err != nil || got.AccountNumber != 1234567890 {
		t.Errorf("expected cached account, got %+v, %v", got, err)
	}
}

func TestCachedAccountRepositoryWriteAndDelete(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	cache, data := mapCache()
	repo := NewCachedAccountRepository(NewInMemoryAccountRepository(log), cache, log)
	owner := uuid.New()

	if _, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: owner, AccountType: "Savings"}, createdStamp); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if data[owner].AccountType != "Savings" {
		t.Fatal("expected write-through on create")
	}

	if _, err := repo.Update(ctx, &domain.Account{AccountNumber: 1234567890, AccountType: "Current"}, updatedStamp); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if data[owner].AccountType != "Current" {
		t.Fatal("expected write-through on update")
	}

	if _, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: uuid.New()}, createdStamp); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if data[owner].AccountType != "Current" {
		t.Error("failed create must not touch the cache")
	}

	if err := repo.DeleteByCustomerID(ctx, owner); err != nil {
		t.Fatalf("DeleteByCustomerID: %v", err)
	}
	if _, ok := data[owner]; ok {
		t.Error("expected cache entry to be removed")
	}
	if _, err := repo.FindByCustomerID(ctx, owner); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCachedAccountRepositoryCacheFailures(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	invalidated := false
	cache := &mockAccountCache{
		cacheAccountFn: func(ctx context.Context, account *domain.Account) error {
			return errors.New("redis down")
		},
		getCachedAccountFn: func(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
			return nil, errors.New("redis down")
		},
		invalidateFn: func(ctx context.Context, customerID uuid.UUID) error {
			invalidated = true
			return errors.New("redis down")
		},
	}
	repo := NewCachedAccountRepository(NewInMemoryAccountRepository(log), cache, log)
	owner := uuid.New()

	if _, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: owner}, createdStamp); err != nil {
		t.Fatalf("Create must not fail on cache errors: %v", err)
	}
	if !invalidated {
		t.Error("expected invalidation after failed cache write")
	}

	got, err := repo.FindByCustomerID(ctx, owner)
	if err != nil || got.AccountNumber != 1234567890 {
		t.Errorf("expected fallback to store, got %+v, %v", got, err)
	}
}
