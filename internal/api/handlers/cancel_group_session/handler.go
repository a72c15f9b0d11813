package cancel_group_session

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
	msgInvalidSessionID = "некорректный ID занятия"
	msgNotFound         = "занятие не найдено"
	msgForbidden        = "отменять групповые занятия может только администратор"
	msgConflict         = "занятие изменено параллельно, повторите запрос"
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

// Handle POST /api/v1/group-sessions/{sessionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	session, err := h.service.Cancel(r.Context(), actor, tenantID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, group.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, group.ErrSessionNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, group.ErrStaleVersion):
			handlers.RespondConflict(w, msgConflict)
		default:
			h.logger.Error("POST /group-sessions/{id}/cancel - Failed to cancel session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /group-sessions/{id}/cancel - Session cancelled: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, group.FromDomainSession(session))
}
