package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Префикс ключей счетов по владельцу
	customerAccountKeyPrefix = "account:customer:"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// RedisCacheRepository реализует кеширование счетов с использованием Redis
type RedisCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCacheRepository создает новый экземпляр Redis репозитория и проверяет соединение
func NewRedisCacheRepository(redisAddr, redisPassword string, redisDB int, ttl time.Duration, log *logger.Logger) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return NewRedisCacheWithClient(client, ttl, log), nil
}

// NewRedisCacheWithClient оборачивает уже созданный клиент. ttl <= 0 означает TTL по умолчанию.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisCacheRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCacheRepository{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Ping проверяет соединение с Redis
func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединение с Redis
func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

func customerAccountKey(customerID uuid.UUID) string {
	return customerAccountKeyPrefix + customerID.String()
}

// CacheAccount кеширует счет по ID владельца
func (r *RedisCacheRepository) CacheAccount(ctx context.Context, account *domain.Account) error {
	key := customerAccountKey(account.CustomerID)

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache account: %w", err)
	}

	r.log.Debugw("Account cached successfully", "customerId", account.CustomerID)
	return nil
}

// GetCachedAccount получает счет из кеша. Промах возвращает (nil, nil).
func (r *RedisCacheRepository) GetCachedAccount(ctx context.Context, customerID uuid.UUID) (*domain.Account, error) {
	data, err := r.client.Get(ctx, customerAccountKey(customerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account from cache: %w", err)
	}

	var account domain.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached account: %w", err)
	}

	return &account, nil
}

// InvalidateCustomerAccount удаляет счет владельца из кеша
func (r *RedisCacheRepository) InvalidateCustomerAccount(ctx context.Context, customerID uuid.UUID) error {
	if err := r.client.Del(ctx, customerAccountKey(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate account cache: %w", err)
	}
	return nil
}
