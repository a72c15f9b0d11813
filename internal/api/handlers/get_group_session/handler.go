package get_group_session

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

// Handle GET /api/v1/group-sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["sessionId"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}
	tenantID, _ := middleware.GetTenantID(r.Context())

	session, err := h.service.Get(r.Context(), tenantID, sessionID)
	if err != nil {
		if errors.Is(err, group.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /group-sessions/{id} - Failed to get session: session_id=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, group.FromDomainSession(session))
}
