package validate_credit

import (
	"context"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// CreditLedger интерфейс журнала кредитов
type CreditLedger interface {
	Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
	Transition(ctx context.Context, req ledger.TransitionRequest) (*domain.MakeupCredit, error)
	Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error)
}

// ConfigResolver интерфейс получения конфигурации отработок
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// Notifier уведомления студента о решении администратора
type Notifier interface {
	SendAvailable(ctx context.Context, credit *domain.MakeupCredit) (domain.DispatchResult, error)
	SendRejected(ctx context.Context, credit *domain.MakeupCredit, reason string) (domain.DispatchResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
