package group

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

const maxGroupCapacity = 20

// CreateRequest запрос на создание группового занятия
type CreateRequest struct {
	Actor     domain.Actor
	TenantID  string
	Category  string
	LessonID  string // урок в LessonService, на который бронируются кредиты
	StartsAt  time.Time
	Capacity  int
	CreditIDs []uuid.UUID // приглашенные кредиты
}

// RespondRequest ответ студента на приглашение
type RespondRequest struct {
	SessionID uuid.UUID
	CreditID  uuid.UUID
	Actor     domain.Actor
	TenantID  string
	Accept    bool
}

// ParticipantResponse участник в ответе API
type ParticipantResponse struct {
	CreditID    uuid.UUID  `json:"creditId"`
	StudentID   string     `json:"studentId"`
	State       string     `json:"state"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// SessionResponse групповое занятие в ответе API
type SessionResponse struct {
	ID           uuid.UUID             `json:"id"`
	TenantID     string                `json:"tenantId"`
	Category     string                `json:"category"`
	LessonID     string                `json:"lessonId"`
	StartsAt     time.Time             `json:"startsAt"`
	Capacity     int                   `json:"capacity"`
	Accepted     int                   `json:"accepted"`
	Status       string                `json:"status"`
	CreatedBy    string                `json:"createdBy"`
	Participants []ParticipantResponse `json:"participants"`
	Version      int64                 `json:"version"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// FromDomainSession конвертирует занятие в модель ответа
func FromDomainSession(s *domain.GroupSession) *SessionResponse {
	participants := make([]ParticipantResponse, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, ParticipantResponse{
			CreditID:    p.CreditID,
			StudentID:   p.StudentID,
			State:       string(p.State),
			RespondedAt: p.RespondedAt,
		})
	}

	return &SessionResponse{
		ID:           s.ID,
		TenantID:     s.TenantID,
		Category:     s.Category,
		LessonID:     s.LessonID,
		StartsAt:     s.StartsAt,
		Capacity:     s.Capacity,
		Accepted:     s.AcceptedCount(),
		Status:       string(s.Status),
		CreatedBy:    s.CreatedBy,
		Participants: participants,
		Version:      s.Version,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
