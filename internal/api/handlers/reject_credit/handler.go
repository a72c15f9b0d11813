package reject_credit

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
	validateCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/validate_credit"
)

const (
	msgInvalidCreditID    = "некорректный ID кредита"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "укажите причину отклонения"
	msgNotFound           = "кредит не найден"
	msgForbidden          = "доступ запрещен"
	msgNotPending         = "кредит не ожидает проверки"
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

// Handle POST /api/v1/credits/{creditId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creditID, err := uuid.Parse(mux.Vars(r)["creditId"])
	if err != nil {
		h.logger.Warn("POST /credits/{id}/reject - Invalid credit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreditID)
		return
	}

	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())
	if actor.Kind != domain.ActorAdmin {
		h.logger.Warn("POST /credits/{id}/reject - Access denied: user_id=%s, role=%s", actor.ID, actor.Kind)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req RejectCreditRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /credits/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	result, err := h.useCase.Reject(r.Context(), validateCredit.Decision{
		CreditID: creditID,
		AdminID:  actor.ID,
		TenantID: tenantID,
		Reason:   req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, validateCredit.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)
		case errors.Is(err, validateCredit.ErrCreditNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, validateCredit.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, validateCredit.ErrNotPending):
			h.logger.Warn("POST /credits/{id}/reject - Credit not pending: credit_id=%s", creditID)
			handlers.RespondConflict(w, msgNotPending)
		default:
			h.logger.Error("POST /credits/{id}/reject - Failed to reject credit: credit_id=%s, error=%v", creditID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /credits/{id}/reject - Credit rejected: credit_id=%s, admin=%s", creditID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, DecisionResponse{
		Credit:   ledger.FromDomainCredit(result.Credit, time.Now().UTC()),
		Notified: result.Notified,
	})
}
