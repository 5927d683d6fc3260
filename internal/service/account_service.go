package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/internal/kafka/producer"
	"github.com/Dhoini/accounts-service/internal/mapper"
	"github.com/Dhoini/accounts-service/internal/metrics"
	"github.com/Dhoini/accounts-service/internal/repository"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

// AccountsService интерфейс сервиса для работы с клиентами и их счетами
type AccountsService interface {
	CreateAccount(ctx context.Context, dto domain.CustomerDto) error
	FetchAccount(ctx context.Context, mobileNumber string) (domain.CustomerDto, error)
	UpdateAccount(ctx context.Context, dto domain.CustomerDto) (bool, error)
	DeleteAccount(ctx context.Context, mobileNumber string) (bool, error)
}

// Options параметры новых счетов
type Options struct {
	AccountType   string
	BranchAddress string
	// NumberSource источник номеров счетов; nil означает RandomAccountNumber
	NumberSource NumberSource
}

type accountsService struct {
	customers repository.CustomerRepository
	accounts  repository.AccountRepository
	stamper   *audit.Stamper
	events    producer.AccountProducer
	metrics   metrics.AccountMetrics
	opts      Options
	log       *logger.Logger
}

// NewAccountsService создает новый сервис счетов
func NewAccountsService(
	customers repository.CustomerRepository,
	accounts repository.AccountRepository,
	stamper *audit.Stamper,
	events producer.AccountProducer,
	m metrics.AccountMetrics,
	opts Options,
	log *logger.Logger,
) AccountsService {
	if opts.AccountType == "" {
		opts.AccountType = domain.AccountTypeSavings
	}
	if opts.BranchAddress == "" {
		opts.BranchAddress = domain.DefaultBranchAddress
	}
	if opts.NumberSource == nil {
		opts.NumberSource = RandomAccountNumber
	}
	if events == nil {
		events = producer.NoopAccountProducer{}
	}
	if m == nil {
		m = metrics.NoopAccountMetrics{}
	}

	return &accountsService{
		customers: customers,
		accounts:  accounts,
		stamper:   stamper,
		events:    events,
		metrics:   m,
		opts:      opts,
		log:       log,
	}
}

// CreateAccount регистрирует клиента и открывает ему счет
func (s *accountsService) CreateAccount(ctx context.Context, dto domain.CustomerDto) (err error) {
	defer s.observe(metrics.OperationCreate, time.Now(), &err)
	s.log.Debugw("Creating account", "mobileNumber", dto.MobileNumber)

	_, err = s.customers.FindByMobileNumber(ctx, dto.MobileNumber)
	switch {
	case err == nil:
		return domain.NewCustomerAlreadyExistsError(dto.MobileNumber)
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to check customer: %w", err)
	}

	stamp := s.stamper.Stamp(ctx)

	customer, err := s.customers.Save(ctx, mapper.ToCustomer(dto, &domain.Customer{}), stamp)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}

	account, err := s.openAccount(ctx, customer.CustomerID, stamp)
	if err != nil {
		// Клиент без счета не должен оставаться в хранилище
		if delErr := s.customers.DeleteByID(ctx, customer.CustomerID); delErr != nil {
			s.log.Errorw("Failed to remove customer after account creation failure",
				"customerId", customer.CustomerID, "error", delErr)
		}
		return err
	}

	s.log.Infow("Account created", "customerId", customer.CustomerID, "accountNumber", account.AccountNumber)
	s.publish(ctx, producer.TopicAccountCreated,
		producer.NewAccountEvent(customer.CustomerID, account.AccountNumber, customer.MobileNumber, stamp.Actor, stamp.At))
	return nil
}

// openAccount подбирает свободный номер и сохраняет новый счет.
// Номер, занятый между проверкой и вставкой, считается занятой попыткой.
func (s *accountsService) openAccount(ctx context.Context, customerID uuid.UUID, stamp audit.Stamp) (*domain.Account, error) {
	for attempt := 1; attempt <= accountNumberTries; attempt++ {
		number, err := s.opts.NumberSource()
		if err != nil {
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}

		_, err = s.accounts.FindByID(ctx, number)
		switch {
		case err == nil:
			s.log.Warnw("Account number already taken", "accountNumber", number, "attempt", attempt)
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("failed to check account number: %w", err)
		}

		account, err := s.accounts.Create(ctx, &domain.Account{
			AccountNumber: number,
			CustomerID:    customerID,
			AccountType:   s.opts.AccountType,
			BranchAddress: s.opts.BranchAddress,
		}, stamp)
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warnw("Account number taken concurrently", "accountNumber", number, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save account: %w", err)
		}
		return account, nil
	}

	return nil, fmt.Errorf("%w: no free account number after %d attempts", domain.ErrInternal, accountNumberTries)
}

// FetchAccount возвращает клиента вместе со счетом
func (s *accountsService) FetchAccount(ctx context.Context, mobileNumber string) (dto domain.CustomerDto, err error) {
	defer s.observe(metrics.OperationFetch, time.Now(), &err)
	s.log.Debugw("Fetching account", "mobileNumber", mobileNumber)

	customer, err := s.findCustomerByMobile(ctx, mobileNumber)
	if err != nil {
		return domain.CustomerDto{}, err
	}

	account, err := s.accounts.FindByCustomerID(ctx, customer.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CustomerDto{}, domain.NewNotFoundError("Account", "customerId", customer.CustomerID.String())
		}
		return domain.CustomerDto{}, fmt.Errorf("failed to find account: %w", err)
	}

	dto = mapper.ToCustomerDto(customer)
	accountsDto := mapper.ToAccountsDto(account)
	dto.AccountsDto = &accountsDto
	return dto, nil
}

// UpdateAccount обновляет счет и его владельца.
// Без AccountsDto ничего не сохраняет и возвращает false.
// Шаги не откатываются: если не удалось сохранить клиента, счет уже обновлен.
func (s *accountsService) UpdateAccount(ctx context.Context, dto domain.CustomerDto) (updated bool, err error) {
	defer s.observe(metrics.OperationUpdate, time.Now(), &err)

	if dto.AccountsDto == nil {
		s.log.Debugw("Update skipped, no account details", "mobileNumber", dto.MobileNumber)
		return false, nil
	}

	number := dto.AccountsDto.AccountNumber
	account, err := s.accounts.FindByID(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("Account", "AccountNumber", strconv.FormatInt(number, 10))
		}
		return false, fmt.Errorf("failed to find account: %w", err)
	}

	stamp := s.stamper.Stamp(ctx)

	account, err = s.accounts.Update(ctx, mapper.ToAccount(*dto.AccountsDto, account), stamp)
	if err != nil {
		return false, fmt.Errorf("failed to save account: %w", err)
	}

	// Владелец определяется по счету, а не по полям запроса
	customerID := account.CustomerID
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("Customer", "CustomerID", customerID.String())
		}
		return false, fmt.Errorf("failed to find customer: %w", err)
	}

	customer, err = s.customers.Save(ctx, mapper.ToCustomer(dto, customer), stamp)
	if err != nil {
		s.log.Errorw("Customer update failed after account was updated",
			"customerId", customerID, "accountNumber", number, "error", err)
		return false, fmt.Errorf("failed to save customer: %w", err)
	}

	s.log.Infow("Account updated", "customerId", customerID, "accountNumber", number)
	s.publish(ctx, producer.TopicAccountUpdated,
		producer.NewAccountEvent(customerID, number, customer.MobileNumber, stamp.Actor, stamp.At))
	return true, nil
}

// DeleteAccount удаляет счета клиента и самого клиента.
// Шаги не откатываются: если не удалось удалить клиента, его счета уже удалены.
func (s *accountsService) DeleteAccount(ctx context.Context, mobileNumber string) (deleted bool, err error) {
	defer s.observe(metrics.OperationDelete, time.Now(), &err)
	s.log.Debugw("Deleting account", "mobileNumber", mobileNumber)

	customer, err := s.findCustomerByMobile(ctx, mobileNumber)
	if err != nil {
		return false, err
	}

	// Номер счета нужен только для события
	var accountNumber int64
	if account, findErr := s.accounts.FindByCustomerID(ctx, customer.CustomerID); findErr == nil {
		accountNumber = account.AccountNumber
	}

	if err := s.accounts.DeleteByCustomerID(ctx, customer.CustomerID); err != nil {
		return false, fmt.Errorf("failed to delete accounts: %w", err)
	}

	if err := s.customers.DeleteByID(ctx, customer.CustomerID); err != nil {
		s.log.Errorw("Customer delete failed after accounts were deleted",
			"customerId", customer.CustomerID, "accountNumber", accountNumber, "error", err)
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}

	stamp := s.stamper.Stamp(ctx)
	s.log.Infow("Account deleted", "customerId", customer.CustomerID, "accountNumber", accountNumber)
	s.publish(ctx, producer.TopicAccountDeleted,
		producer.NewAccountEvent(customer.CustomerID, accountNumber, customer.MobileNumber, stamp.Actor, stamp.At))
	return true, nil
}

func (s *accountsService) findCustomerByMobile(ctx context.Context, mobileNumber string) (*domain.Customer, error) {
	customer, err := s.customers.FindByMobileNumber(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Customer", "mobileNumber", mobileNumber)
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// publish отправляет событие; ошибка доставки не влияет на результат операции
func (s *accountsService) publish(ctx context.Context, eventType string, event producer.AccountEvent) {
	var err error
	switch eventType {
	case producer.TopicAccountCreated:
		err = s.events.PublishAccountCreated(ctx, event)
	case producer.TopicAccountUpdated:
		err = s.events.PublishAccountUpdated(ctx, event)
	case producer.TopicAccountDeleted:
		err = s.events.PublishAccountDeleted(ctx, event)
	}

	if err != nil {
		s.metrics.IncEventPublishFailed(eventType)
		s.log.Warnw("Failed to publish account event", "eventType", eventType, "customerId", event.CustomerID, "error", err)
	}
}

func (s *accountsService) observe(operation string, start time.Time, err *error) {
	outcome := "success"
	if *err != nil {
		outcome = domain.KindOf(*err).String()
	}
	s.metrics.ObserveOperation(operation, outcome, time.Since(start))
}
