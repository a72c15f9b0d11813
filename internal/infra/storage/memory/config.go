package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	configrepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/config"
)

type configKey struct {
	tenantID string
	category string
}

// ConfigRepository хранилище конфигураций в памяти процесса
type ConfigRepository struct {
	mu      sync.RWMutex
	nextID  int64
	configs map[configKey]*domain.MakeupConfig
}

// NewConfigRepository создает пустое хранилище конфигураций
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{configs: make(map[configKey]*domain.MakeupConfig)}
}

func (r *ConfigRepository) GetByTenantAndCategory(_ context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[configKey{tenantID, category}]
	if !ok {
		return nil, configrepo.ErrConfigNotFound
	}
	return cloneConfig(config), nil
}

func (r *ConfigRepository) GetWithHierarchy(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	if category != "" && category != domain.CategoryAll {
		config, err := r.GetByTenantAndCategory(ctx, tenantID, category)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, configrepo.ErrConfigNotFound) {
			return nil, err
		}
	}
	return r.GetByTenantAndCategory(ctx, tenantID, domain.CategoryAll)
}

func (r *ConfigRepository) ListByTenant(_ context.Context, tenantID string) ([]*domain.MakeupConfig, error) {
	r.mu.RLock()
	configs := make([]*domain.MakeupConfig, 0)
	for key, config := range r.configs {
		if key.tenantID == tenantID {
			configs = append(configs, cloneConfig(config))
		}
	}
	r.mu.RUnlock()

	sort.Slice(configs, func(i, j int) bool {
		if configs[i].IsTenantWide() != configs[j].IsTenantWide() {
			return configs[i].IsTenantWide()
		}
		return configs[i].Category < configs[j].Category
	})
	return configs, nil
}

func (r *ConfigRepository) Upsert(_ context.Context, config *domain.MakeupConfig) (*domain.MakeupConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	saved := cloneConfig(config)
	key := configKey{config.TenantID, config.Category}

	if existing, ok := r.configs[key]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		saved.ID = r.nextID
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	r.configs[key] = saved
	return cloneConfig(saved), nil
}

func (r *ConfigRepository) Delete(_ context.Context, tenantID, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := configKey{tenantID, category}
	if _, ok := r.configs[key]; !ok {
		return configrepo.ErrConfigNotFound
	}
	delete(r.configs, key)
	return nil
}

func cloneConfig(c *domain.MakeupConfig) *domain.MakeupConfig {
	cp := *c
	cp.ValidReasons = append([]domain.CancellationReason(nil), c.ValidReasons...)
	cp.ReminderOffsets = append([]int(nil), c.ReminderOffsets...)
	return &cp
}
