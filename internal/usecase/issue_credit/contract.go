package issue_credit

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// CreditLedger интерфейс журнала кредитов
type CreditLedger interface {
	CreateCredit(ctx context.Context, event domain.CancellationEvent, config *domain.MakeupConfig) (*domain.MakeupCredit, error)
	GetByOriginalLesson(ctx context.Context, lessonID string) (*domain.MakeupCredit, error)
}

// ConfigResolver интерфейс получения конфигурации отработок
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// Notifier уведомление о доступном кредите
type Notifier interface {
	SendAvailable(ctx context.Context, credit *domain.MakeupCredit) (domain.DispatchResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
