package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const (
	TopicAccountCreated = "account.created"
	TopicAccountUpdated = "account.updated"
	TopicAccountDeleted = "account.deleted"
)

// AccountEvent событие жизненного цикла счета для Kafka
type AccountEvent struct {
	CustomerID    string    `json:"customer_id"`
	AccountNumber int64     `json:"account_number,omitempty"`
	MobileNumber  string    `json:"mobile_number"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewAccountEvent собирает событие из идентификаторов клиента и счета
func NewAccountEvent(customerID uuid.UUID, accountNumber int64, mobileNumber, actor string, at time.Time) AccountEvent {
	return AccountEvent{
		CustomerID:    customerID.String(),
		AccountNumber: accountNumber,
		MobileNumber:  mobileNumber,
		Actor:         actor,
		Timestamp:     at,
	}
}

// AccountProducer интерфейс для отправки событий по счетам
type AccountProducer interface {
	PublishAccountCreated(ctx context.Context, event AccountEvent) error
	PublishAccountUpdated(ctx context.Context, event AccountEvent) error
	PublishAccountDeleted(ctx context.Context, event AccountEvent) error
	Close() error
}

type kafkaAccountProducer struct {
	producer    sarama.SyncProducer
	topicPrefix string
	log         *logger.Logger
}

// NewKafkaAccountProducer создает новый продюсер событий по счетам
func NewKafkaAccountProducer(producer sarama.SyncProducer, topicPrefix string, log *logger.Logger) AccountProducer {
	return &kafkaAccountProducer{
		producer:    producer,
		topicPrefix: topicPrefix,
		log:         log,
	}
}

// PublishAccountCreated публикует событие о создании счета
func (p *kafkaAccountProducer) PublishAccountCreated(ctx context.Context, event AccountEvent) error {
	return p.publishEvent(ctx, TopicAccountCreated, event)
}

// PublishAccountUpdated публикует событие об обновлении счета
func (p *kafkaAccountProducer) PublishAccountUpdated(ctx context.Context, event AccountEvent) error {
	return p.publishEvent(ctx, TopicAccountUpdated, event)
}

// PublishAccountDeleted публикует событие об удалении счета
func (p *kafkaAccountProducer) PublishAccountDeleted(ctx context.Context, event AccountEvent) error {
	return p.publishEvent(ctx, TopicAccountDeleted, event)
}

func (p *kafkaAccountProducer) publishEvent(ctx context.Context, eventType string, event AccountEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal account event: %w", err)
	}

	topic := p.topicPrefix + eventType
	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.CustomerID),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(eventType),
			},
			{
				Key:   []byte("account_number"),
				Value: []byte(strconv.FormatInt(event.AccountNumber, 10)),
			},
		},
		Timestamp: event.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish account event: %w", err)
	}

	p.log.Debugw("Published account event", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

// Close закрывает продюсер
func (p *kafkaAccountProducer) Close() error {
	return p.producer.Close()
}

// NoopAccountProducer используется, когда Kafka выключена
type NoopAccountProducer struct{}

func (NoopAccountProducer) PublishAccountCreated(context.Context, AccountEvent) error { return nil }
func (NoopAccountProducer) PublishAccountUpdated(context.Context, AccountEvent) error { return nil }
func (NoopAccountProducer) PublishAccountDeleted(context.Context, AccountEvent) error { return nil }
func (NoopAccountProducer) Close() error                                              { return nil }
