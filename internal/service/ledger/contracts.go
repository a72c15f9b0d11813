package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// CreditRepository интерфейс репозитория кредитов
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.MakeupCredit) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MakeupCredit, error)
	GetByOriginalLessonID(ctx context.Context, lessonID string) (*domain.MakeupCredit, error)
	ListByUsedLessonID(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error)
	Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error)
	CountActive(ctx context.Context, tenantID, studentID, category string) (int, error)
	UpdateWithVersion(ctx context.Context, credit *domain.MakeupCredit, expectedVersion int64) error
}

// ConfigResolver возвращает действующую конфигурацию категории
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учет выпуска кредитов и переходов
type MetricsRecorder interface {
	CreditIssued(status string)
	CreditTransitioned(from, to string)
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
