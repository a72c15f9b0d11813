package respond_group_session

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
)

type GroupService interface {
	Respond(ctx context.Context, req *group.RespondRequest) (*domain.GroupSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
