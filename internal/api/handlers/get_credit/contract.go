package get_credit

import (
	"context"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

type CreditLedger interface {
	Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
