package get_credit

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

const (
	msgInvalidCreditID = "некорректный ID кредита"
	msgNotFound        = "кредит не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/credits/{creditId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creditID, err := uuid.Parse(mux.Vars(r)["creditId"])
	if err != nil {
		h.logger.Warn("GET /credits/{id} - Invalid credit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreditID)
		return
	}

	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	credit, err := h.ledger.Get(r.Context(), creditID)
	if err != nil {
		if errors.Is(err, ledger.ErrCreditNotFound) {
			h.logger.Warn("GET /credits/{id} - Credit not found: credit_id=%s", creditID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /credits/{id} - Failed to get credit: credit_id=%s, error=%v", creditID, err)
		handlers.RespondInternalError(w)
		return
	}

	if credit.TenantID != tenantID {
		h.logger.Warn("GET /credits/{id} - Credit of another tenant: credit_id=%s, tenant=%s", creditID, tenantID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	}
	if actor.Kind == domain.ActorStudent && credit.StudentID != actor.ID {
		h.logger.Warn("GET /credits/{id} - Access denied: credit_id=%s, user_id=%s", creditID, actor.ID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	h.logger.Info("GET /credits/{id} - Credit retrieved: credit_id=%s", creditID)
	handlers.RespondJSON(w, http.StatusOK, ledger.FromDomainCredit(credit, time.Now().UTC()))
}
