package postgres

import (
	"context"
	"fmt"

	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ширины колонок не уже того, что пропускает валидация запросов
const (
	emailMaxLen = 254
	actorMaxLen = 100
)

var schema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS customer (
	customer_id   UUID PRIMARY KEY,
	name          VARCHAR(100) NOT NULL,
	email         VARCHAR(%[1]d) NOT NULL,
	mobile_number VARCHAR(20)  NOT NULL UNIQUE,
	created_at    TIMESTAMPTZ  NOT NULL,
	created_by    VARCHAR(%[2]d) NOT NULL,
	updated_at    TIMESTAMPTZ  NULL,
	updated_by    VARCHAR(%[2]d) NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	account_number BIGINT PRIMARY KEY,
	customer_id    UUID         NOT NULL REFERENCES customer (customer_id),
	account_type   TEXT         NOT NULL,
	branch_address TEXT         NOT NULL,
	created_at     TIMESTAMPTZ  NOT NULL,
	created_by     VARCHAR(%[2]d) NOT NULL,
	updated_at     TIMESTAMPTZ  NULL,
	updated_by     VARCHAR(%[2]d) NULL
);

ALTER TABLE customer
	ALTER COLUMN email TYPE VARCHAR(%[1]d),
	ALTER COLUMN created_by TYPE VARCHAR(%[2]d),
	ALTER COLUMN updated_by TYPE VARCHAR(%[2]d);

ALTER TABLE accounts
	ALTER COLUMN account_type TYPE TEXT,
	ALTER COLUMN branch_address TYPE TEXT,
	ALTER COLUMN created_by TYPE VARCHAR(%[2]d),
	ALTER COLUMN updated_by TYPE VARCHAR(%[2]d);

CREATE INDEX IF NOT EXISTS idx_accounts_customer_id ON accounts (customer_id);
`, emailMaxLen, actorMaxLen)

// EnsureSchema создает таблицы, если их еще нет
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, log *logger.Logger) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info("Database schema is up to date")
	return nil
}
