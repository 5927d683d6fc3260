package repository

import (
	"context"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

// AccountCache то, что нужно кешированному репозиторию от кеша
type AccountCache interface {
	CacheAccount(ctx context.Context, account *domain.Account) error
	GetCachedAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error)
	InvalidateCustomerAccount(ctx context.Context, customerID uuid.UUID) error
}

// CachedAccountRepository реализует AccountRepository с кешированием поиска по владельцу.
// Ошибки кеша только логируются: источником истины остается основное хранилище.
type CachedAccountRepository struct {
	repo  AccountRepository
	cache AccountCache
	log   *logger.Logger
}

// NewCachedAccountRepository создает новый репозиторий с кешированием
func NewCachedAccountRepository(repo AccountRepository, cache AccountCache, log *logger.Logger) *CachedAccountRepository {
	return &CachedAccountRepository{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет новый счет и обновляет кеш
func (r *CachedAccountRepository) Create(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	saved, err := r.repo.Create(ctx, account, stamp)
	if err != nil {
		return nil, err
	}

	r.refresh(ctx, saved)
	return saved, nil
}

// Update обновляет счет и кеш
func (r *CachedAccountRepository) Update(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	saved, err := r.repo.Update(ctx, account, stamp)
	if err != nil {
		return nil, err
	}

	r.refresh(ctx, saved)
	return saved, nil
}

func (r *CachedAccountRepository) refresh(ctx context.Context, saved *domain.Account) {
	if err := r.cache.CacheAccount(ctx, saved); err != nil {
		r.log.Warnw("Failed to cache account after save", "error", err, "customerId", saved.CustomerID)
		// Старое значение в кеше хуже, чем его отсутствие
		if err := r.cache.InvalidateCustomerAccount(ctx, saved.CustomerID); err != nil {
			r.log.Warnw("Failed to invalidate account cache", "error", err, "customerId", saved.CustomerID)
		}
	}
}

// FindByID ищет счет по номеру напрямую в хранилище
func (r *CachedAccountRepository) FindByID(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	return r.repo.FindByID(ctx, accountNumber)
}

// FindByCustomerID получает счет владельца (сначала из кеша, потом из БД)
func (r *CachedAccountRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	cached, err := r.cache.GetCachedAccount(ctx, customerID)
	if err != nil {
		r.log.Warnw("Error getting account from cache", "error", err, "customerId", customerID)
	}
	if cached != nil {
		r.log.Debugw("Account found in cache", "customerId", customerID)
		return cached, nil
	}

	account, err := r.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.CacheAccount(ctx, account); err != nil {
		r.log.Warnw("Failed to cache account after fetching", "error", err, "customerId", customerID)
	}

	return account, nil
}

// DeleteByCustomerID удаляет счета владельца и его запись в кеше
func (r *CachedAccountRepository) DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error {
	if err := r.repo.DeleteByCustomerID(ctx, customerID); err != nil {
		return err
	}

	if err := r.cache.InvalidateCustomerAccount(ctx, customerID); err != nil {
		r.log.Warnw("Failed to invalidate account cache after delete", "error", err, "customerId", customerID)
	}

	return nil
}
