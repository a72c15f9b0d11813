package get_makeup_config

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
)

type ConfigService interface {
	Get(ctx context.Context, tenantID, category string) (*models.ConfigResponse, error)
	List(ctx context.Context, tenantID string) ([]*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
