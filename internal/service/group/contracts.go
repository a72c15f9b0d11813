package group

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// SessionRepository интерфейс хранилища групповых занятий
type SessionRepository interface {
	Create(ctx context.Context, session *domain.GroupSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GroupSession, error)
	UpdateWithVersion(ctx context.Context, session *domain.GroupSession, expectedVersion int64) error
}

// CreditLedger интерфейс журнала кредитов
type CreditLedger interface {
	Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
	Transition(ctx context.Context, req ledger.TransitionRequest) (*domain.MakeupCredit, error)
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
