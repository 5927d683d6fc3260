package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Операции сервиса счетов
const (
	OperationCreate = "create"
	OperationFetch  = "fetch"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// AccountMetrics интерфейс для метрик сервиса счетов
type AccountMetrics interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	IncEventPublishFailed(eventType string)
}

type accountMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	eventFailures     *prometheus.CounterVec
}

// NewRegistry создает реестр с метриками Go-рантайма и процесса
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewAccountMetrics создает новые метрики сервиса счетов
func NewAccountMetrics(registry *prometheus.Registry) AccountMetrics {
	operations := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_operations_total",
			Help: "The total number of account operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	operationDuration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accounts_operation_duration_seconds",
			Help:    "Account operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	eventFailures := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_event_publish_failures_total",
			Help: "The total number of account events that could not be published",
		},
		[]string{"event_type"},
	)

	return &accountMetrics{
		operations:        operations,
		operationDuration: operationDuration,
		eventFailures:     eventFailures,
	}
}

// ObserveOperation учитывает завершенную операцию и ее длительность
func (m *accountMetrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncEventPublishFailed увеличивает счетчик неотправленных событий
func (m *accountMetrics) IncEventPublishFailed(eventType string) {
	m.eventFailures.WithLabelValues(eventType).Inc()
}

// NoopAccountMetrics ничего не считает, для тестов
type NoopAccountMetrics struct{}

func (NoopAccountMetrics) ObserveOperation(string, string, time.Duration) {}
func (NoopAccountMetrics) IncEventPublishFailed(string)                   {}
