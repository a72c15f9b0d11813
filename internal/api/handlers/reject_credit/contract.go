package reject_credit

import (
	"context"

	validateCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/validate_credit"
)

type ValidationUseCase interface {
	Reject(ctx context.Context, d validateCredit.Decision) (*validateCredit.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
