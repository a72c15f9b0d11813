package list_pending_credits

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

type ValidationUseCase interface {
	ListPending(ctx context.Context, tenantID string, limit, offset int) ([]*domain.MakeupCredit, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
