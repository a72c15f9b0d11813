package respond_group_session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
)

const (
	msgInvalidSessionID   = "некорректный ID занятия"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректный ответ на приглашение"
	msgNotFound           = "занятие не найдено"
	msgForbidden          = "доступ запрещен"
	msgClosed             = "занятие закрыто для ответов"
	msgNotInvited         = "кредит не приглашен на занятие"
	msgAlreadyResponded   = "на приглашение уже дан ответ"
	msgCreditNotAvailable = "кредит нельзя использовать для занятия"
	msgConflict           = "занятие изменено параллельно, повторите запрос"
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

// Handle POST /api/v1/group-sessions/{sessionId}/responses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	var req RespondRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /group-sessions/{id}/responses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	session, err := h.service.Respond(r.Context(), &group.RespondRequest{
		SessionID: sessionID,
		CreditID:  req.CreditID,
		Actor:     actor,
		TenantID:  tenantID,
		Accept:    *req.Accept,
	})
	if err != nil {
		switch {
		case errors.Is(err, group.ErrSessionNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, group.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, group.ErrSessionClosed):
			handlers.RespondConflict(w, msgClosed)
		case errors.Is(err, group.ErrNotInvited):
			handlers.RespondNotFound(w, msgNotInvited)
		case errors.Is(err, group.ErrAlreadyResponded):
			handlers.RespondConflict(w, msgAlreadyResponded)
		case errors.Is(err, group.ErrCreditNotAvailable):
			handlers.RespondUnprocessable(w, msgCreditNotAvailable)
		case errors.Is(err, group.ErrStaleVersion):
			handlers.RespondConflict(w, msgConflict)
		default:
			h.logger.Error("POST /group-sessions/{id}/responses - Failed to respond: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /group-sessions/{id}/responses - Response recorded: session_id=%s, credit_id=%s, accept=%t",
		sessionID, req.CreditID, *req.Accept)
	handlers.RespondJSON(w, http.StatusOK, group.FromDomainSession(session))
}
