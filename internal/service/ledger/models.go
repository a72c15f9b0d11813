package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// TransitionRequest запрос на переход кредита в другой статус
type TransitionRequest struct {
	CreditID uuid.UUID
	Target   domain.CreditStatus
	Actor    domain.Actor
	Metadata TransitionMetadata

	// ExpectedVersion если задан, переход выполняется только для этой версии кредита
	ExpectedVersion *int64
}

// TransitionMetadata данные, сопровождающие переход
type TransitionMetadata struct {
	UsedLessonID string     // available -> booked
	BookedFor    *time.Time // начало забронированного урока
	UsedAt       *time.Time // booked -> used, по умолчанию текущее время
	Reason       string     // причина отмены или отклонения
}

// CreditResponse представление кредита в API
type CreditResponse struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         string     `json:"tenantId"`
	StudentID        string     `json:"studentId"`
	OriginalLessonID string     `json:"originalLessonId"`
	Category         string     `json:"category"`
	Reason           string     `json:"reason"`
	ReasonDetails    *string    `json:"reasonDetails,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        time.Time  `json:"expiresAt"`
	DaysRemaining    int        `json:"daysRemaining"`
	UsedAt           *time.Time `json:"usedAt,omitempty"`
	UsedLessonID     *string    `json:"usedLessonId,omitempty"`
	BookedFor        *time.Time `json:"bookedFor,omitempty"`
	RemindersSent    []int      `json:"remindersSent"`
	ValidatedBy      *string    `json:"validatedBy,omitempty"`
	ValidatedAt      *time.Time `json:"validatedAt,omitempty"`
	CancelledBy      *string    `json:"cancelledBy,omitempty"`
	CancelReason     *string    `json:"cancelReason,omitempty"`
	Version          int64      `json:"version"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// FromDomainCredit конвертирует кредит в модель ответа
func FromDomainCredit(c *domain.MakeupCredit, now time.Time) *CreditResponse {
	days := c.DaysRemaining(now)
	if days < 0 || c.IsTerminal() {
		days = 0
	}
	reminders := c.RemindersSent
	if reminders == nil {
		reminders = []int{}
	}

	return &CreditResponse{
		ID:               c.ID,
		TenantID:         c.TenantID,
		StudentID:        c.StudentID,
		OriginalLessonID: c.OriginalLessonID,
		Category:         c.Category,
		Reason:           string(c.Reason),
		ReasonDetails:    c.ReasonDetails,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		ExpiresAt:        c.ExpiresAt,
		DaysRemaining:    days,
		UsedAt:           c.UsedAt,
		UsedLessonID:     c.UsedLessonID,
		BookedFor:        c.BookedFor,
		RemindersSent:    reminders,
		ValidatedBy:      c.ValidatedBy,
		ValidatedAt:      c.ValidatedAt,
		CancelledBy:      c.CancelledBy,
		CancelReason:     c.CancelReason,
		Version:          c.Version,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromDomainCredits конвертирует список кредитов
func FromDomainCredits(credits []*domain.MakeupCredit, now time.Time) []*CreditResponse {
	result := make([]*CreditResponse, 0, len(credits))
	for _, c := range credits {
		result = append(result, FromDomainCredit(c, now))
	}
	return result
}
