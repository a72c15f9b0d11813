package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec

	CreditsIssuedTotal      *prometheus.CounterVec
	CreditTransitionsTotal  *prometheus.CounterVec
	RemindersTotal          *prometheus.CounterVec
	SchedulerTickDuration   prometheus.Histogram
	SchedulerCreditsScanned prometheus.Counter
}

// New создает и регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		CreditsIssuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "makeup_credits_issued_total",
			Help:        "Makeup credits issued, by initial status",
			ConstLabels: constLabels,
		}, []string{"status"}),

		CreditTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "makeup_credit_transitions_total",
			Help:        "Makeup credit status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		RemindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "makeup_reminders_total",
			Help:        "Expiry reminders by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		SchedulerTickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "makeup_scheduler_tick_duration_seconds",
			Help:        "Duration of one expiry scheduler tick",
			ConstLabels: constLabels,
			Buckets:     []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		}),

		SchedulerCreditsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "makeup_scheduler_credits_scanned_total",
			Help:        "Credits examined by the expiry scheduler",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.CreditsIssuedTotal,
		m.CreditTransitionsTotal,
		m.RemindersTotal,
		m.SchedulerTickDuration,
		m.SchedulerCreditsScanned,
	)

	return m
}

// CreditIssued учитывает выпуск кредита
func (m *Metrics) CreditIssued(status string) {
	m.CreditsIssuedTotal.WithLabelValues(status).Inc()
}

// CreditTransitioned учитывает переход статуса
func (m *Metrics) CreditTransitioned(from, to string) {
	m.CreditTransitionsTotal.WithLabelValues(from, to).Inc()
}

// ReminderSent учитывает успешно отправленное напоминание
func (m *Metrics) ReminderSent() {
	m.RemindersTotal.WithLabelValues("sent").Inc()
}

// ReminderFailed учитывает неудачную отправку напоминания
func (m *Metrics) ReminderFailed() {
	m.RemindersTotal.WithLabelValues("failed").Inc()
}

// TickCompleted учитывает завершенный тик планировщика
func (m *Metrics) TickCompleted(duration time.Duration, scanned int) {
	m.SchedulerTickDuration.Observe(duration.Seconds())
	m.SchedulerCreditsScanned.Add(float64(scanned))
}

// Nop реализация рекордеров без метрик (метрики выключены или тесты)
type Nop struct{}

func (Nop) CreditIssued(string)              {}
func (Nop) CreditTransitioned(string, string) {}
func (Nop) ReminderSent()                    {}
func (Nop) ReminderFailed()                  {}
func (Nop) TickCompleted(time.Duration, int) {}
