package update_makeup_config

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
)

type ConfigService interface {
	Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error)
	Delete(ctx context.Context, actor domain.Actor, tenantID, category string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
