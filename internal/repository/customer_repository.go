package repository

import (
	"context"
	"sync"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

// CustomerRepository интерфейс для работы с клиентами
type CustomerRepository interface {
	// Save вставляет нового клиента (CustomerID == uuid.Nil) или обновляет существующего
	Save(ctx context.Context, customer *domain.Customer, stamp audit.Stamp) (*domain.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.Customer, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// InMemoryCustomerRepository реализация репозитория в памяти
type InMemoryCustomerRepository struct {
	customers map[uuid.UUID]domain.Customer
	mutex     sync.RWMutex
	log       *logger.Logger
}

// NewInMemoryCustomerRepository создает новый репозиторий клиентов в памяти
func NewInMemoryCustomerRepository(log *logger.Logger) *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[uuid.UUID]domain.Customer),
		log:       log,
	}
}

// Save создает или обновляет клиента
func (r *InMemoryCustomerRepository) Save(ctx context.Context, customer *domain.Customer, stamp audit.Stamp) (*domain.Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	saved := *customer

	// Номер телефона уникален, как и ограничение UNIQUE в postgres
	for id, c := range r.customers {
		if c.MobileNumber == saved.MobileNumber && id != saved.CustomerID {
			return nil, ErrDuplicate
		}
	}

	if saved.IsNew() {
		saved.CustomerID = uuid.New()
		stampCreated(&saved.Audit, stamp)
	} else {
		existing, exists := r.customers[saved.CustomerID]
		if !exists {
			return nil, ErrNotFound
		}
		stampUpdated(&saved.Audit, existing.Audit, stamp)
	}

	r.customers[saved.CustomerID] = saved
	r.log.Debugw("Customer saved", "customerId", saved.CustomerID)

	return &saved, nil
}

// FindByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return nil, ErrNotFound
	}

	return &customer, nil
}

// FindByMobileNumber возвращает клиента по номеру телефона
func (r *InMemoryCustomerRepository) FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, customer := range r.customers {
		if customer.MobileNumber == mobileNumber {
			c := customer
			return &c, nil
		}
	}

	return nil, ErrNotFound
}

// DeleteByID удаляет клиента. Отсутствие записи не считается ошибкой.
func (r *InMemoryCustomerRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.customers, id)
	return nil
}

// Count возвращает количество клиентов
func (r *InMemoryCustomerRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.customers)
}
