package run_scheduler

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/scheduler/expiry"
)

type ExpiryScheduler interface {
	Tick(ctx context.Context) (expiry.TickReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
