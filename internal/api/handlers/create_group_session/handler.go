package create_group_session

import (
	"errors"
	"net/http"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные группового занятия"
	msgForbidden          = "создавать групповые занятия может только администратор"
	msgCreditNotAvailable = "один из кредитов нельзя использовать для занятия"
)

type Handler struct {
	service GroupService
	logger  Logger
}

func NewHandler(service GroupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/group-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	var req CreateGroupSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /group-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	session, err := h.service.Create(r.Context(), req.ToServiceRequest(actor, tenantID))
	if err != nil {
		switch {
		case errors.Is(err, group.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, group.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, group.ErrCreditNotAvailable):
			h.logger.Warn("POST /group-sessions - Credit not available: %v", err)
			handlers.RespondUnprocessable(w, msgCreditNotAvailable)
		default:
			h.logger.Error("POST /group-sessions - Failed to create session: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /group-sessions - Session created: session_id=%s, invited=%d", session.ID, len(session.Participants))
	handlers.RespondJSON(w, http.StatusCreated, group.FromDomainSession(session))
}
