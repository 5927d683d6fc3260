package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/internal/repository"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const customerColumns = `customer_id, name, email, mobile_number, created_at, created_by, updated_at, updated_by`

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer  domain.Customer
		updatedBy *string
	)

	err := row.Scan(
		&customer.CustomerID,
		&customer.Name,
		&customer.Email,
		&customer.MobileNumber,
		&customer.CreatedAt,
		&customer.CreatedBy,
		&customer.UpdatedAt,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	if updatedBy != nil {
		customer.UpdatedBy = *updatedBy
	}
	return &customer, nil
}

// mapWriteError переводит ошибки postgres в ошибки репозитория
func mapWriteError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repository.ErrDuplicate
		case pgForeignKeyViolation:
			return repository.ErrInvalidData
		}
	}
	return err
}

// Save вставляет нового клиента или обновляет существующего
func (r *PostgresCustomerRepository) Save(ctx context.Context, customer *domain.Customer, stamp audit.Stamp) (*domain.Customer, error) {
	if customer.IsNew() {
		return r.insert(ctx, customer, stamp)
	}
	return r.update(ctx, customer, stamp)
}

func (r *PostgresCustomerRepository) insert(ctx context.Context, customer *domain.Customer, stamp audit.Stamp) (*domain.Customer, error) {
	query := `
		INSERT INTO customer (customer_id, name, email, mobile_number, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + customerColumns

	saved, err := scanCustomer(r.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		customer.Name,
		customer.Email,
		customer.MobileNumber,
		stamp.At,
		stamp.Actor,
	))
	if err != nil {
		mapped := mapWriteError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		return nil, mapped
	}

	return saved, nil
}

func (r *PostgresCustomerRepository) update(ctx context.Context, customer *domain.Customer, stamp audit.Stamp) (*domain.Customer, error) {
	query := `
		UPDATE customer
		SET name = $1, email = $2, mobile_number = $3, updated_at = $4, updated_by = $5
		WHERE customer_id = $6
		RETURNING ` + customerColumns

	saved, err := scanCustomer(r.db.QueryRow(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.MobileNumber,
		stamp.At,
		stamp.Actor,
		customer.CustomerID,
	))
	if err != nil {
		mapped := mapWriteError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
		return nil, mapped
	}

	return saved, nil
}

// FindByID возвращает клиента по ID
func (r *PostgresCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE customer_id = $1`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// FindByMobileNumber возвращает клиента по номеру телефона
func (r *PostgresCustomerRepository) FindByMobileNumber(ctx context.Context, mobileNumber string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customer WHERE mobile_number = $1`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, mobileNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer by mobile number: %w", err)
	}

	return customer, nil
}

// DeleteByID удаляет клиента
func (r *PostgresCustomerRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM customer WHERE customer_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
