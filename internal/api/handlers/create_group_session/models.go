package create_group_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
)

// CreateGroupSessionRequest HTTP модель запроса
type CreateGroupSessionRequest struct {
	Category  string      `json:"category" validate:"notblank,ne=all"`
	LessonID  string      `json:"lessonId" validate:"notblank"`
	StartsAt  time.Time   `json:"startsAt" validate:"required"`
	Capacity  int         `json:"capacity" validate:"min=1,max=20"`
	CreditIDs []uuid.UUID `json:"creditIds" validate:"required,min=1,dive,required"`
}

// ToServiceRequest конвертирует HTTP модель в запрос сервиса
func (r *CreateGroupSessionRequest) ToServiceRequest(actor domain.Actor, tenantID string) *group.CreateRequest {
	return &group.CreateRequest{
		Actor:     actor,
		TenantID:  tenantID,
		Category:  r.Category,
		LessonID:  r.LessonID,
		StartsAt:  r.StartsAt.UTC(),
		Capacity:  r.Capacity,
		CreditIDs: r.CreditIDs,
	}
}
