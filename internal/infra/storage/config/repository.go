package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/dbmetrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/psqlbuilder"
)

const tableName = "makeup_configs"

var columns = []string{
	"id",
	"tenant_id",
	"category",
	"max_days_from_cancellation",
	"expiry_days",
	"valid_reasons",
	"requires_admin_validation",
	"auto_notify_student",
	"reminder_offsets",
	"min_booking_lead_hours",
	"allow_multiple_credits",
	"booked_grace_hours",
	"timezone",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигураций отработок в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигураций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenantAndCategory получает конфигурацию ровно для пары (tenant, category)
func (r *Repository) GetByTenantAndCategory(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"tenant_id": tenantID, "category": category}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndCategory - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndCategory - scan config: %v", ErrScanRow, err)
	}

	return config, nil
}

// GetWithHierarchy получает конфигурацию с учетом иерархии приоритетов
// 1. Конфигурация для конкретной категории (tenant, category)
// 2. Общая конфигурация автошколы (tenant, "all")
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	if category != "" && category != domain.CategoryAll {
		config, err := r.GetByTenantAndCategory(ctx, tenantID, category)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
	}

	return r.GetByTenantAndCategory(ctx, tenantID, domain.CategoryAll)
}

// ListByTenant получает все конфигурации автошколы, общая первой
func (r *Repository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.MakeupConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("(category = 'all') DESC, category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.MakeupConfig, 0)
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTenant - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Upsert создает или обновляет конфигурацию для пары (tenant, category)
func (r *Repository) Upsert(ctx context.Context, config *domain.MakeupConfig) (*domain.MakeupConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"tenant_id",
			"category",
			"max_days_from_cancellation",
			"expiry_days",
			"valid_reasons",
			"requires_admin_validation",
			"auto_notify_student",
			"reminder_offsets",
			"min_booking_lead_hours",
			"allow_multiple_credits",
			"booked_grace_hours",
			"timezone",
		).
		Values(
			config.TenantID,
			config.Category,
			config.MaxDaysFromCancellation,
			config.ExpiryDays,
			pq.Array(reasonsToStrings(config.ValidReasons)),
			config.RequiresAdminValidation,
			config.AutoNotifyStudent,
			pq.Array(intsToInt64(config.ReminderOffsets)),
			config.MinBookingLeadHours,
			config.AllowMultipleCredits,
			config.BookedGraceHours,
			config.Timezone,
		).
		Suffix(`ON CONFLICT (tenant_id, category) DO UPDATE SET
			max_days_from_cancellation = EXCLUDED.max_days_from_cancellation,
			expiry_days = EXCLUDED.expiry_days,
			valid_reasons = EXCLUDED.valid_reasons,
			requires_admin_validation = EXCLUDED.requires_admin_validation,
			auto_notify_student = EXCLUDED.auto_notify_student,
			reminder_offsets = EXCLUDED.reminder_offsets,
			min_booking_lead_hours = EXCLUDED.min_booking_lead_hours,
			allow_multiple_credits = EXCLUDED.allow_multiple_credits,
			booked_grace_hours = EXCLUDED.booked_grace_hours,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	saved := *config
	err = executor.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return &saved, nil
}

// Delete удаляет конфигурацию (tenant, category)
func (r *Repository) Delete(ctx context.Context, tenantID, category string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"tenant_id": tenantID, "category": category}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.MakeupConfig, error) {
	var config domain.MakeupConfig
	var reasons []string
	var offsets []int64

	err := row.Scan(
		&config.ID,
		&config.TenantID,
		&config.Category,
		&config.MaxDaysFromCancellation,
		&config.ExpiryDays,
		pq.Array(&reasons),
		&config.RequiresAdminValidation,
		&config.AutoNotifyStudent,
		pq.Array(&offsets),
		&config.MinBookingLeadHours,
		&config.AllowMultipleCredits,
		&config.BookedGraceHours,
		&config.Timezone,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	config.ValidReasons = make([]domain.CancellationReason, 0, len(reasons))
	for _, reason := range reasons {
		config.ValidReasons = append(config.ValidReasons, domain.CancellationReason(reason))
	}
	config.ReminderOffsets = make([]int, 0, len(offsets))
	for _, offset := range offsets {
		config.ReminderOffsets = append(config.ReminderOffsets, int(offset))
	}

	return &config, nil
}

func reasonsToStrings(reasons []domain.CancellationReason) []string {
	result := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		result = append(result, string(reason))
	}
	return result
}

func intsToInt64(values []int) []int64 {
	result := make([]int64, 0, len(values))
	for _, v := range values {
		result = append(result, int64(v))
	}
	return result
}
