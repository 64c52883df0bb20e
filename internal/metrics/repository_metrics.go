package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RepositoryMetrics содержит метрики операций репозитория заказов.
type RepositoryMetrics struct {
	// Счётчик операций с разбивкой по исходу
	operations *prometheus.CounterVec

	// Гистограмма времени выполнения операций
	operationDuration *prometheus.HistogramVec

	// Gauge для операций в полёте
	inFlight prometheus.Gauge
}

// NewRepositoryMetrics создаёт новый экземпляр метрик репозитория.
func NewRepositoryMetrics() *RepositoryMetrics {
	return newRepositoryMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newRepositoryMetricsWithRegisterer(registerer prometheus.Registerer) *RepositoryMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RepositoryMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "northwind_repository_operations_total",
			Help: "Total number of order repository operations by outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "northwind_repository_operation_duration_seconds",
			Help:    "Duration of order repository operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "northwind_repository_operations_in_flight",
			Help: "Number of order repository operations currently in flight",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperationStarted увеличивает количество операций в полёте.
func (m *RepositoryMetrics) RecordOperationStarted() {
	m.inFlight.Inc()
}

// RecordOperationFinished фиксирует исход и длительность операции
// и уменьшает количество операций в полёте.
func (m *RepositoryMetrics) RecordOperationFinished(operation string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	m.inFlight.Dec()
}
