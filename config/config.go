package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config структура конфигурации приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Accounts AccountsConfig `mapstructure:"accounts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// Хранилища данных
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// RedisConfig конфигурация кеша счетов
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// KafkaConfig конфигурация событий по счетам
type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// AccountsConfig параметры новых счетов и аудита
type AccountsConfig struct {
	BranchAddress string `mapstructure:"branch_address"`
	AccountType   string `mapstructure:"account_type"`
	AuditActor    string `mapstructure:"audit_actor"`
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// defaults значения по умолчанию и переменные окружения для каждого ключа
var defaults = []struct {
	key   string
	env   string
	value any
}{
	{"server.port", "PORT", "8080"},
	{"server.read_timeout", "SERVER_READ_TIMEOUT", 15},
	{"server.write_timeout", "SERVER_WRITE_TIMEOUT", 15},
	{"server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT", 30},

	{"database.driver", "DB_DRIVER", DriverMemory},
	{"database.host", "DB_HOST", "localhost"},
	{"database.port", "DB_PORT", 5432},
	{"database.user", "DB_USER", "postgres"},
	{"database.password", "DB_PASSWORD", "postgres"},
	{"database.name", "DB_NAME", "accounts"},
	{"database.sslmode", "DB_SSLMODE", "disable"},
	{"database.max_conns", "DB_MAX_CONNS", 10},

	{"redis.enabled", "REDIS_ENABLED", false},
	{"redis.addr", "REDIS_ADDR", "localhost:6379"},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.db", "REDIS_DB", 0},
	{"redis.ttl", "REDIS_TTL", 15 * time.Minute},

	{"kafka.enabled", "KAFKA_ENABLED", false},
	{"kafka.brokers", "KAFKA_BROKERS", []string{"localhost:9092"}},
	{"kafka.topic_prefix", "KAFKA_TOPIC_PREFIX", ""},

	{"accounts.branch_address", "ACCOUNTS_BRANCH_ADDRESS", "123 Main Street, New York"},
	{"accounts.account_type", "ACCOUNTS_ACCOUNT_TYPE", "Savings"},
	{"accounts.audit_actor", "ACCOUNTS_AUDIT_ACTOR", "ACCOUNTS_MS"},

	{"logging.level", "LOG_LEVEL", "info"},
}

// Load загружает конфигурацию: .env (если есть), config.yaml (если есть), переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(envPath string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
		if err := v.BindEnv(d.key, d.env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but no brokers are configured")
	}
	return nil
}
