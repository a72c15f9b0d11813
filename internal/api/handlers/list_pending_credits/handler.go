package list_pending_credits

import (
	"net/http"
	"strconv"
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
	useCase ValidationUseCase
	logger  Logger
}

func NewHandler(useCase ValidationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/credits/pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())
	if actor.Kind != domain.ActorAdmin {
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	limit, errLimit := atoiOrZero(r.URL.Query().Get("limit"))
	offset, errOffset := atoiOrZero(r.URL.Query().Get("offset"))
	if errLimit != nil || errOffset != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	credits, err := h.useCase.ListPending(r.Context(), tenantID, limit, offset)
	if err != nil {
		h.logger.Error("GET /credits/pending - Failed to list: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /credits/pending - Pending credits retrieved: tenant=%s, count=%d", tenantID, len(credits))
	handlers.RespondJSON(w, http.StatusOK, ledger.FromDomainCredits(credits, time.Now().UTC()))
}

func atoiOrZero(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
