package repository

import (
	"context"
	"sync"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

// AccountRepository интерфейс для работы со счетами
type AccountRepository interface {
	// Create вставляет новый счет; занятый номер дает ErrDuplicate
	Create(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error)
	// Update меняет тип и адрес отделения существующего счета
	Update(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error)
	FindByID(ctx context.Context, accountNumber int64) (*domain.Account, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error)
	DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error
}

// InMemoryAccountRepository реализация репозитория счетов в памяти
type InMemoryAccountRepository struct {
	accounts map[int64]domain.Account
	mutex    sync.RWMutex
	log      *logger.Logger
}

// NewInMemoryAccountRepository создает новый репозиторий счетов в памяти
func NewInMemoryAccountRepository(log *logger.Logger) *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[int64]domain.Account),
		log:      log,
	}
}

// Create сохраняет новый счет
func (r *InMemoryAccountRepository) Create(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if account.CustomerID == uuid.Nil {
		return nil, ErrInvalidData
	}
	if _, exists := r.accounts[account.AccountNumber]; exists {
		return nil, ErrDuplicate
	}

	saved := *account
	stampCreated(&saved.Audit, stamp)

	r.accounts[saved.AccountNumber] = saved
	r.log.Debugw("Account created", "accountNumber", saved.AccountNumber, "customerId", saved.CustomerID)

	return &saved, nil
}

// Update обновляет существующий счет
func (r *InMemoryAccountRepository) Update(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.accounts[account.AccountNumber]
	if !exists {
		return nil, ErrNotFound
	}

	saved := existing
	saved.AccountType = account.AccountType
	saved.BranchAddress = account.BranchAddress
	stampUpdated(&saved.Audit, existing.Audit, stamp)

	r.accounts[saved.AccountNumber] = saved
	r.log.Debugw("Account updated", "accountNumber", saved.AccountNumber, "customerId", saved.CustomerID)

	return &saved, nil
}

// FindByID возвращает счет по номеру
func (r *InMemoryAccountRepository) FindByID(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	account, exists := r.accounts[accountNumber]
	if !exists {
		return nil, ErrNotFound
	}

	return &account, nil
}

// FindByCustomerID возвращает счет клиента
func (r *InMemoryAccountRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, account := range r.accounts {
		if account.CustomerID == customerID {
			a := account
			return &a, nil
		}
	}

	return nil, ErrNotFound
}

// DeleteByCustomerID удаляет все счета клиента
func (r *InMemoryAccountRepository) DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for number, account := range r.accounts {
		if account.CustomerID == customerID {
			delete(r.accounts, number)
		}
	}

	return nil
}

// Count возвращает количество счетов
func (r *InMemoryAccountRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.accounts)
}
