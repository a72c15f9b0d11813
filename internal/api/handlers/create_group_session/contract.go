package create_group_session

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
)

type GroupService interface {
	Create(ctx context.Context, req *group.CreateRequest) (*domain.GroupSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
