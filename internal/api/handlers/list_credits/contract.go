package list_credits

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

type CreditLedger interface {
	Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
