package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/accounts-service/config"
	"github.com/Dhoini/accounts-service/internal/api/rest"
	"github.com/Dhoini/accounts-service/internal/api/rest/handlers"
	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/kafka"
	"github.com/Dhoini/accounts-service/internal/kafka/producer"
	"github.com/Dhoini/accounts-service/internal/metrics"
	"github.com/Dhoini/accounts-service/internal/repository"
	"github.com/Dhoini/accounts-service/internal/repository/postgres"
	"github.com/Dhoini/accounts-service/internal/service"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/Dhoini/accounts-service/pkg/req"
	"github.com/gin-gonic/gin"
)

// storage репозитории и все, что нужно закрыть при остановке
type storage struct {
	customers repository.CustomerRepository
	accounts  repository.AccountRepository
	checks    map[string]handlers.HealthChecker
	closers   []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func main() {
	// Загрузка конфигурации (.env подхватывается внутри)
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New(logger.INFO).Fatal("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.ParseLevel(cfg.Logging.Level))
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := metrics.NewRegistry()
	accountMetrics := metrics.NewAccountMetrics(promRegistry)

	store, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	accountProducer := newAccountProducer(cfg.Kafka, log)
	defer accountProducer.Close()

	accountsService := service.NewAccountsService(
		store.customers,
		store.accounts,
		audit.NewStamper(cfg.Accounts.AuditActor, nil),
		accountProducer,
		accountMetrics,
		service.Options{
			AccountType:   cfg.Accounts.AccountType,
			BranchAddress: cfg.Accounts.BranchAddress,
		},
		log,
	)

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := rest.SetupRouter(
		log,
		promRegistry,
		handlers.NewAccountsHandler(accountsService, req.NewValidator(), log),
		handlers.NewHealthHandler(store.checks),
	)
	server := rest.NewServer(router, cfg.Server, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}

// newStorage выбирает хранилище по конфигурации и, если нужно, оборачивает счета кешем Redis
func newStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	store := &storage{checks: make(map[string]handlers.HealthChecker)}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		opts := postgres.DefaultPoolOptions()
		if cfg.Database.MaxConns > 0 {
			opts.MaxConns = cfg.Database.MaxConns
		}

		pool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), opts, log)
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, pool.Close)

		if err := postgres.EnsureSchema(ctx, pool, log); err != nil {
			store.close()
			return nil, err
		}

		store.customers = postgres.NewPostgresCustomerRepository(pool, log)
		store.accounts = postgres.NewPostgresAccountRepository(pool, log)
		store.checks["postgres"] = pool

	default:
		log.Warn("Using in-memory storage, data will be lost on restart")
		store.customers = repository.NewInMemoryCustomerRepository(log)
		store.accounts = repository.NewInMemoryAccountRepository(log)
	}

	if cfg.Redis.Enabled {
		cache, err := repository.NewRedisCacheRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			// Без кеша сервис работает, только медленнее
			log.Warn("Redis cache disabled: %v", err)
		} else {
			store.closers = append(store.closers, func() { _ = cache.Close() })
			store.accounts = repository.NewCachedAccountRepository(store.accounts, cache, log)
			store.checks["redis"] = cache
		}
	}

	return store, nil
}

// newAccountProducer создает продюсер Kafka или заглушку, если Kafka выключена или недоступна
func newAccountProducer(cfg config.KafkaConfig, log *logger.Logger) producer.AccountProducer {
	if !cfg.Enabled {
		log.Info("Kafka disabled, account events will not be published")
		return producer.NoopAccountProducer{}
	}

	syncProducer, err := kafka.NewSyncProducer(kafka.NewConfig(cfg.Brokers), log)
	if err != nil {
		log.Warn("Kafka unavailable, account events will not be published: %v", err)
		return producer.NoopAccountProducer{}
	}

	return producer.NewKafkaAccountProducer(syncProducer, cfg.TopicPrefix, log)
}
