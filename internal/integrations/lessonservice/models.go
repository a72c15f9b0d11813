package lessonservice

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// SlotPayload слот урока в запросах к LessonService
type SlotPayload struct {
	TenantID        string    `json:"tenant_id"`
	StudentID       string    `json:"student_id"`
	InstructorID    string    `json:"instructor_id"`
	VehicleID       *string   `json:"vehicle_id,omitempty"`
	Category        string    `json:"category"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingPoint    *string   `json:"meeting_point,omitempty"`
}

// AvailabilityResponse ответ проверки доступности
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CreateLessonRequest запрос на создание урока-отработки
type CreateLessonRequest struct {
	SlotPayload
	MakeupCreditID uuid.UUID `json:"makeup_credit_id"`
}

// CancelLessonRequest запрос на отмену урока
type CancelLessonRequest struct {
	Reason string `json:"reason"`
}

// Lesson урок из LessonService
type Lesson struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	StudentID       string     `json:"student_id"`
	InstructorID    string     `json:"instructor_id"`
	Category        string     `json:"category"`
	StartTime       time.Time  `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	MakeupCreditID  *uuid.UUID `json:"makeup_credit_id,omitempty"`
}

// FromDomainSlot конвертирует доменный слот в payload
func FromDomainSlot(slot domain.SlotRequest) SlotPayload {
	return SlotPayload{
		TenantID:        slot.TenantID,
		StudentID:       slot.StudentID,
		InstructorID:    slot.InstructorID,
		VehicleID:       slot.VehicleID,
		Category:        slot.Category,
		StartTime:       slot.StartTime.UTC(),
		DurationMinutes: slot.DurationMinutes,
		MeetingPoint:    slot.MeetingPoint,
	}
}

// ToDomain конвертирует ответ сервиса в доменную модель
func (l *Lesson) ToDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:              l.ID,
		TenantID:        l.TenantID,
		StudentID:       l.StudentID,
		InstructorID:    l.InstructorID,
		Category:        l.Category,
		StartTime:       l.StartTime,
		DurationMinutes: l.DurationMinutes,
		Status:          l.Status,
		MakeupCreditID:  l.MakeupCreditID,
	}
}
