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
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_number, customer_id, account_type, branch_address, created_at, created_by, updated_at, updated_by`

// PostgresAccountRepository реализация репозитория счетов через PostgreSQL
type PostgresAccountRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresAccountRepository создает новый репозиторий счетов через PostgreSQL
func NewPostgresAccountRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		db:  db,
		log: log,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		updatedBy *string
	)

	err := row.Scan(
		&account.AccountNumber,
		&account.CustomerID,
		&account.AccountType,
		&account.BranchAddress,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.UpdatedAt,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	if updatedBy != nil {
		account.UpdatedBy = *updatedBy
	}
	return &account, nil
}

// Create вставляет новый счет; занятый номер дает repository.ErrDuplicate
func (r *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, branch_address, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(
		ctx,
		query,
		account.AccountNumber,
		account.CustomerID,
		account.AccountType,
		account.BranchAddress,
		stamp.At,
		stamp.Actor,
	))
	if err != nil {
		mapped := mapWriteError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return nil, mapped
	}

	return saved, nil
}

// Update меняет тип и адрес отделения; владелец и поля создания не трогаются
func (r *PostgresAccountRepository) Update(ctx context.Context, account *domain.Account, stamp audit.Stamp) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET account_type = $1, branch_address = $2, updated_at = $3, updated_by = $4
		WHERE account_number = $5
		RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(
		ctx,
		query,
		account.AccountType,
		account.BranchAddress,
		stamp.At,
		stamp.Actor,
		account.AccountNumber,
	))
	if err != nil {
		mapped := mapWriteError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		return nil, mapped
	}

	return saved, nil
}

// FindByID возвращает счет по номеру
func (r *PostgresAccountRepository) FindByID(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// FindByCustomerID возвращает счет клиента (самый ранний, если их несколько)
func (r *PostgresAccountRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY created_at LIMIT 1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by customer: %w", err)
	}

	return account, nil
}

// DeleteByCustomerID удаляет все счета клиента
func (r *PostgresAccountRepository) DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}

	r.log.Debugw("Accounts deleted", "customerId", customerID, "rows", result.RowsAffected())
	return nil
}
