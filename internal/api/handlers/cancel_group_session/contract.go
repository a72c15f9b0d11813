package cancel_group_session

import (
	"context"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

type GroupService interface {
	Cancel(ctx context.Context, actor domain.Actor, tenantID string, sessionID uuid.UUID) (*domain.GroupSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
