package list_credits

import (
	"net/http"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

const (
	msgInvalidQuery = "некорректные параметры запроса"
	msgForbidden    = "доступ запрещен"
)

type Handler struct {
	ledger CreditLedger
	logger Logger
}

func NewHandler(credits CreditLedger, logger Logger) *Handler {
	return &Handler{
		ledger: credits,
		logger: logger,
	}
}

// Handle GET /api/v1/credits
// Студент видит только свои кредиты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	filter, err := ParseFilter(tenantID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /credits - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	if actor.Kind == domain.ActorStudent {
		if filter.StudentID != nil && *filter.StudentID != actor.ID {
			h.logger.Warn("GET /credits - Access denied: user_id=%s, student_id=%s", actor.ID, *filter.StudentID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		filter.StudentID = &actor.ID
	}

	credits, err := h.ledger.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /credits - Failed to query credits: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /credits - Credits retrieved: tenant=%s, count=%d", tenantID, len(credits))
	handlers.RespondJSON(w, http.StatusOK, ledger.FromDomainCredits(credits, time.Now().UTC()))
}
