package config

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигураций отработок
type ConfigRepository interface {
	GetByTenantAndCategory(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
	GetWithHierarchy(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.MakeupConfig, error)
	Upsert(ctx context.Context, config *domain.MakeupConfig) (*domain.MakeupConfig, error)
	Delete(ctx context.Context, tenantID, category string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
