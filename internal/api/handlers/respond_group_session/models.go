package respond_group_session

import "github.com/google/uuid"

// RespondRequest HTTP модель ответа на приглашение
type RespondRequest struct {
	CreditID uuid.UUID `json:"creditId" validate:"required"`
	Accept   *bool     `json:"accept" validate:"required"`
}
