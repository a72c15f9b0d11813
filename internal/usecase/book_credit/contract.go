package book_credit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// CreditLedger интерфейс журнала кредитов
type CreditLedger interface {
	Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
	Transition(ctx context.Context, req ledger.TransitionRequest) (*domain.MakeupCredit, error)
	FindByLesson(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error)
}

// ConfigResolver интерфейс получения конфигурации отработок
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// AvailabilityChecker проверка свободности инструктора и автомобиля
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, slot domain.SlotRequest) (bool, error)
}

// LessonScheduler создание и отмена уроков в LessonService
type LessonScheduler interface {
	CreateLesson(ctx context.Context, slot domain.SlotRequest, creditID uuid.UUID, idempotencyKey string) (*domain.Lesson, error)
	CancelLesson(ctx context.Context, tenantID, lessonID, reason string) error
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

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
