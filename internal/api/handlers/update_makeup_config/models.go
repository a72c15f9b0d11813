package update_makeup_config

import (
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
)

// UpdateConfigRequest HTTP модель запроса, все поля необязательны
type UpdateConfigRequest struct {
	MaxDaysFromCancellation *int     `json:"maxDaysFromCancellation" validate:"omitempty,min=1,max=365"`
	ExpiryDays              *int     `json:"expiryDays" validate:"omitempty,min=1,max=730"`
	ValidReasons            []string `json:"validReasons" validate:"omitempty,dive,notblank"`
	RequiresAdminValidation *bool    `json:"requiresAdminValidation"`
	AutoNotifyStudent       *bool    `json:"autoNotifyStudent"`
	ReminderOffsets         []int    `json:"reminderOffsets" validate:"omitempty,dive,min=1,max=90"`
	MinBookingLeadHours     *int     `json:"minBookingLeadHours" validate:"omitempty,min=0"`
	AllowMultipleCredits    *bool    `json:"allowMultipleCredits"`
	BookedGraceHours        *int     `json:"bookedGraceHours" validate:"omitempty,min=0"`
	Timezone                *string  `json:"timezone" validate:"omitempty,notblank"`
}

// ToServiceRequest конвертирует HTTP модель в запрос сервиса
func (r *UpdateConfigRequest) ToServiceRequest(actor domain.Actor, tenantID, category string) *models.UpsertConfigRequest {
	var reasons []domain.CancellationReason
	if r.ValidReasons != nil {
		reasons = make([]domain.CancellationReason, 0, len(r.ValidReasons))
		for _, reason := range r.ValidReasons {
			reasons = append(reasons, domain.CancellationReason(reason))
		}
	}

	return &models.UpsertConfigRequest{
		Actor:                   actor,
		TenantID:                tenantID,
		Category:                category,
		MaxDaysFromCancellation: r.MaxDaysFromCancellation,
		ExpiryDays:              r.ExpiryDays,
		ValidReasons:            reasons,
		RequiresAdminValidation: r.RequiresAdminValidation,
		AutoNotifyStudent:       r.AutoNotifyStudent,
		ReminderOffsets:         r.ReminderOffsets,
		MinBookingLeadHours:     r.MinBookingLeadHours,
		AllowMultipleCredits:    r.AllowMultipleCredits,
		BookedGraceHours:        r.BookedGraceHours,
		Timezone:                r.Timezone,
	}
}
