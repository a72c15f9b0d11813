package models

import (
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// Уровни, с которых взята действующая конфигурация
const (
	SourceCategory = "category"
	SourceTenant   = "tenant"
	SourceDefault  = "default"
)

// Request модели

// UpsertConfigRequest запрос на создание или изменение конфигурации
// Непереданные поля берутся из действующей сейчас конфигурации
type UpsertConfigRequest struct {
	Actor                   domain.Actor
	TenantID                string
	Category                string
	MaxDaysFromCancellation *int
	ExpiryDays              *int
	ValidReasons            []domain.CancellationReason
	RequiresAdminValidation *bool
	AutoNotifyStudent       *bool
	ReminderOffsets         []int
	MinBookingLeadHours     *int
	AllowMultipleCredits    *bool
	BookedGraceHours        *int
	Timezone                *string
}

// ApplyTo накладывает переданные поля на базовую конфигурацию
func (r *UpsertConfigRequest) ApplyTo(base *domain.MakeupConfig) *domain.MakeupConfig {
	cfg := *base
	cfg.TenantID = r.TenantID
	cfg.Category = r.Category

	if r.MaxDaysFromCancellation != nil {
		cfg.MaxDaysFromCancellation = *r.MaxDaysFromCancellation
	}
	if r.ExpiryDays != nil {
		cfg.ExpiryDays = *r.ExpiryDays
	}
	if r.ValidReasons != nil {
		cfg.ValidReasons = append([]domain.CancellationReason(nil), r.ValidReasons...)
	}
	if r.RequiresAdminValidation != nil {
		cfg.RequiresAdminValidation = *r.RequiresAdminValidation
	}
	if r.AutoNotifyStudent != nil {
		cfg.AutoNotifyStudent = *r.AutoNotifyStudent
	}
	if r.ReminderOffsets != nil {
		cfg.ReminderOffsets = append([]int(nil), r.ReminderOffsets...)
	}
	if r.MinBookingLeadHours != nil {
		cfg.MinBookingLeadHours = *r.MinBookingLeadHours
	}
	if r.AllowMultipleCredits != nil {
		cfg.AllowMultipleCredits = *r.AllowMultipleCredits
	}
	if r.BookedGraceHours != nil {
		cfg.BookedGraceHours = *r.BookedGraceHours
	}
	if r.Timezone != nil {
		cfg.Timezone = *r.Timezone
	}
	return &cfg
}

// Response модели

// ConfigResponse ответ с данными конфигурации
type ConfigResponse struct {
	ID                      int64      `json:"id,omitempty"`
	TenantID                string     `json:"tenantId"`
	Category                string     `json:"category"`
	Source                  string     `json:"source"`
	MaxDaysFromCancellation int        `json:"maxDaysFromCancellation"`
	ExpiryDays              int        `json:"expiryDays"`
	ValidReasons            []string   `json:"validReasons"`
	RequiresAdminValidation bool       `json:"requiresAdminValidation"`
	AutoNotifyStudent       bool       `json:"autoNotifyStudent"`
	ReminderOffsets         []int      `json:"reminderOffsets"`
	MinBookingLeadHours     int        `json:"minBookingLeadHours"`
	AllowMultipleCredits    bool       `json:"allowMultipleCredits"`
	BookedGraceHours        int        `json:"bookedGraceHours"`
	Timezone                string     `json:"timezone"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует доменную модель в ответ
func FromDomainConfig(config *domain.MakeupConfig, source string) *ConfigResponse {
	reasons := make([]string, 0, len(config.ValidReasons))
	for _, r := range config.ValidReasons {
		reasons = append(reasons, string(r))
	}

	resp := &ConfigResponse{
		ID:                      config.ID,
		TenantID:                config.TenantID,
		Category:                config.Category,
		Source:                  source,
		MaxDaysFromCancellation: config.MaxDaysFromCancellation,
		ExpiryDays:              config.ExpiryDays,
		ValidReasons:            reasons,
		RequiresAdminValidation: config.RequiresAdminValidation,
		AutoNotifyStudent:       config.AutoNotifyStudent,
		ReminderOffsets:         append([]int{}, config.ReminderOffsets...),
		MinBookingLeadHours:     config.MinBookingLeadHours,
		AllowMultipleCredits:    config.AllowMultipleCredits,
		BookedGraceHours:        config.BookedGraceHours,
		Timezone:                config.Timezone,
	}
	if !config.IsDefault() {
		createdAt, updatedAt := config.CreatedAt, config.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
