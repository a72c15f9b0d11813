package expiry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// CreditLedger операции журнала кредитов, нужные планировщику
type CreditLedger interface {
	Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error)
	MarkExpired(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
	RecordReminder(ctx context.Context, creditID uuid.UUID, offset int) (*domain.MakeupCredit, error)
}

// ReminderDispatcher отправка напоминаний
type ReminderDispatcher interface {
	SendReminder(ctx context.Context, credit *domain.MakeupCredit, offsetDays int) (domain.DispatchResult, error)
}

// ConfigResolver возвращает действующую конфигурацию категории
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// MetricsRecorder учет работы планировщика
type MetricsRecorder interface {
	ReminderSent()
	ReminderFailed()
	TickCompleted(duration time.Duration, scanned int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
