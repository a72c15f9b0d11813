package publish_cancellation

import (
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// CancellationRequest HTTP request model
type CancellationRequest struct {
	LessonID      string    `json:"lessonId" validate:"notblank"`
	StudentID     string    `json:"studentId" validate:"notblank"`
	Category      string    `json:"category" validate:"notblank,ne=all"`
	Reason        string    `json:"reason" validate:"notblank"`
	ReasonDetails *string   `json:"reasonDetails,omitempty" validate:"omitempty,max=500"`
	CancelledAt   time.Time `json:"cancelledAt" validate:"required"`
}

// AcceptedResponse ответ о принятом событии
type AcceptedResponse struct {
	LessonID string `json:"lessonId"`
	Status   string `json:"status"`
}

// ToDomain конвертирует запрос в событие отмены
func (r *CancellationRequest) ToDomain(tenantID string) domain.CancellationEvent {
	return domain.CancellationEvent{
		TenantID:      tenantID,
		LessonID:      r.LessonID,
		StudentID:     r.StudentID,
		Category:      r.Category,
		Reason:        domain.CancellationReason(r.Reason),
		ReasonDetails: r.ReasonDetails,
		CancelledAt:   r.CancelledAt.UTC(),
	}
}
