package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	configRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
)

// Service сервис конфигураций отработок
type Service struct {
	configRepo ConfigRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(configRepo ConfigRepository, logger Logger) *Service {
	return &Service{
		configRepo: configRepo,
		logger:     logger,
	}
}

// Resolve возвращает действующую конфигурацию для категории
// Приоритет: (tenant, category) > (tenant, all) > встроенные значения по умолчанию
func (s *Service) Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	config, _, err := s.resolve(ctx, tenantID, category)
	return config, err
}

// Get возвращает действующую конфигурацию и уровень, с которого она взята
func (s *Service) Get(ctx context.Context, tenantID, category string) (*models.ConfigResponse, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	config, source, err := s.resolve(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	return models.FromDomainConfig(config, source), nil
}

// List возвращает все сохраненные конфигурации автошколы
func (s *Service) List(ctx context.Context, tenantID string) ([]*models.ConfigResponse, error) {
	configs, err := s.configRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.ConfigResponse, 0, len(configs))
	for _, config := range configs {
		result = append(result, models.FromDomainConfig(config, sourceOf(config)))
	}
	return result, nil
}

// Upsert создает или обновляет конфигурацию (tenant, category)
// Доступно только администраторам автошколы
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	if req.Category == "" {
		req.Category = domain.CategoryAll
	}
	s.logger.Info("Upsert: saving config tenant=%s category=%s by %s=%s",
		req.TenantID, req.Category, req.Actor.Kind, req.Actor.ID)

	if req.Actor.Kind != domain.ActorAdmin {
		s.logger.Warn("Upsert: actor %s=%s is not allowed to change configs", req.Actor.Kind, req.Actor.ID)
		return nil, ErrAccessDenied
	}

	base, _, err := s.resolve(ctx, req.TenantID, req.Category)
	if err != nil {
		return nil, err
	}

	config := req.ApplyTo(base)
	if err := config.Validate(); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.configRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved config id=%d tenant=%s category=%s", saved.ID, saved.TenantID, saved.Category)
	return models.FromDomainConfig(saved, sourceOf(saved)), nil
}

// Delete удаляет конфигурацию, после чего действует следующий уровень иерархии
func (s *Service) Delete(ctx context.Context, actor domain.Actor, tenantID, category string) error {
	if actor.Kind != domain.ActorAdmin {
		return ErrAccessDenied
	}

	if err := s.configRepo.Delete(ctx, tenantID, category); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return ErrConfigNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: removed config tenant=%s category=%s", tenantID, category)
	return nil
}

func (s *Service) resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, string, error) {
	config, err := s.configRepo.GetWithHierarchy(ctx, tenantID, category)
	if err == nil {
		return config, sourceOf(config), nil
	}
	if !errors.Is(err, configRepo.ErrConfigNotFound) {
		s.logger.Error("Resolve: repository error for tenant=%s category=%s: %v", tenantID, category, err)
		return nil, "", fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	config = domain.DefaultMakeupConfig(tenantID)
	return config, models.SourceDefault, nil
}

func sourceOf(config *domain.MakeupConfig) string {
	switch {
	case config.IsDefault():
		return models.SourceDefault
	case config.IsTenantWide():
		return models.SourceTenant
	default:
		return models.SourceCategory
	}
}
