package kafka

import (
	"fmt"
	"log"
	"time"

	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Config конфигурация для Kafka
type Config struct {
	Brokers  []string
	ClientID string
	Producer ProducerConfig
}

// ProducerConfig конфигурация для продюсера
type ProducerConfig struct {
	MaxMessageBytes int
	Compression     sarama.CompressionCodec
	RequiredAcks    sarama.RequiredAcks
	RetryMax        int
	Timeout         time.Duration
}

// NewConfig создает новую конфигурацию Kafka
func NewConfig(brokers []string) *Config {
	return &Config{
		Brokers:  brokers,
		ClientID: "accounts-service",
		Producer: ProducerConfig{
			MaxMessageBytes: 1000000,
			Compression:     sarama.CompressionSnappy,
			RequiredAcks:    sarama.WaitForAll,
			RetryMax:        3,
			Timeout:         10 * time.Second,
		},
	}
}

// NewSaramaConfig создает новую конфигурацию Sarama
func NewSaramaConfig(cfg *Config, l *logger.Logger) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	// Версия Kafka
	saramaConfig.Version = sarama.V3_3_0_0
	saramaConfig.ClientID = cfg.ClientID

	// Настройки продюсера
	saramaConfig.Producer.MaxMessageBytes = cfg.Producer.MaxMessageBytes
	saramaConfig.Producer.Compression = cfg.Producer.Compression
	saramaConfig.Producer.RequiredAcks = cfg.Producer.RequiredAcks
	saramaConfig.Producer.Retry.Max = cfg.Producer.RetryMax
	saramaConfig.Producer.Timeout = cfg.Producer.Timeout
	saramaConfig.Producer.Idempotent = false
	// SyncProducer требует оба флага
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	if l != nil && l.Level() <= logger.DEBUG {
		sarama.Logger = newSaramaLogger(l)
	}

	return saramaConfig
}

func newSaramaLogger(l *logger.Logger) *log.Logger {
	return zap.NewStdLog(l.Zap().Named("sarama"))
}

// NewSyncProducer подключается к брокерам и создает синхронный продюсер
func NewSyncProducer(cfg *Config, l *logger.Logger) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers list is empty")
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg, l))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	l.Infow("Kafka producer created", "brokers", cfg.Brokers)
	return producer, nil
}
