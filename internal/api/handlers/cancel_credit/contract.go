package cancel_credit

import (
	"context"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

type CreditLedger interface {
	Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error)
	Transition(ctx context.Context, req ledger.TransitionRequest) (*domain.MakeupCredit, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
