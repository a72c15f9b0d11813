package cancel_credit

import (
	"errors"
	"io"
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
	msgInvalidCreditID    = "некорректный ID кредита"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные запроса"
	msgNotFound           = "кредит не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "кредит нельзя отменить в текущем статусе"
	msgConflict           = "кредит был изменен, повторите запрос"
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

// Handle POST /api/v1/credits/{creditId}/cancel
// Ручная отмена доступного кредита администратором или владельцем
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creditID, err := uuid.Parse(mux.Vars(r)["creditId"])
	if err != nil {
		h.logger.Warn("POST /credits/{id}/cancel - Invalid credit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreditID)
		return
	}

	// Тело запроса необязательно
	var req CancelCreditRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /credits/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	credit, err := h.ledger.Get(r.Context(), creditID)
	if err != nil {
		if errors.Is(err, ledger.ErrCreditNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("POST /credits/{id}/cancel - Failed to get credit: credit_id=%s, error=%v", creditID, err)
		handlers.RespondInternalError(w)
		return
	}
	if credit.TenantID != tenantID {
		handlers.RespondNotFound(w, msgNotFound)
		return
	}
	if actor.Kind == domain.ActorStudent && credit.StudentID != actor.ID {
		h.logger.Warn("POST /credits/{id}/cancel - Access denied: credit_id=%s, user_id=%s", creditID, actor.ID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	cancelled, err := h.ledger.Transition(r.Context(), ledger.TransitionRequest{
		CreditID:        creditID,
		Target:          domain.CreditStatusCancelled,
		Actor:           actor,
		Metadata:        ledger.TransitionMetadata{Reason: req.Reason},
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidTransition):
			h.logger.Warn("POST /credits/{id}/cancel - Invalid transition: credit_id=%s, status=%s", creditID, credit.Status)
			handlers.RespondUnprocessable(w, msgInvalidTransition)
		case errors.Is(err, ledger.ErrStaleVersion):
			handlers.RespondConflict(w, msgConflict)
		case errors.Is(err, ledger.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)
		default:
			h.logger.Error("POST /credits/{id}/cancel - Failed to cancel credit: credit_id=%s, error=%v", creditID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /credits/{id}/cancel - Credit cancelled: credit_id=%s, by=%s", creditID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, ledger.FromDomainCredit(cancelled, time.Now().UTC()))
}
