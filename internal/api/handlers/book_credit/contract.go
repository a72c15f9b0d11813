package book_credit

import (
	"context"

	bookCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
)

type BookingUseCase interface {
	Execute(ctx context.Context, req *bookCredit.Request) (*bookCredit.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
