package consumer

import (
	"context"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/issue_credit"
)

// Subscriber источник событий
type Subscriber interface {
	Subscribe(topic events.Topic) (*events.Subscription, error)
}

// CreditIssuer выпуск кредита по отмене урока
type CreditIssuer interface {
	Execute(ctx context.Context, event domain.CancellationEvent) (*issue_credit.Result, error)
}

// LessonOutcomeHandler итог забронированного урока
type LessonOutcomeHandler interface {
	HandleLessonCompleted(ctx context.Context, lessonID string, completedAt time.Time) ([]*domain.MakeupCredit, error)
	HandleLessonCancelled(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
