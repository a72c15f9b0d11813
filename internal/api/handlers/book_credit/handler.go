package book_credit

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	bookCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
)

const (
	msgInvalidCreditID    = "некорректный ID кредита"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные бронирования"
	msgNotFound           = "кредит не найден"
	msgForbidden          = "доступ запрещен"
	msgNotAvailable       = "кредит недоступен для бронирования"
	msgLeadTime           = "урок начинается слишком скоро"
	msgSlotNotAvailable   = "выбранное время недоступно"
	msgTimeout            = "сервис расписания не ответил вовремя"
	msgConsumed           = "кредит уже использован"
)

type Handler struct {
	useCase BookingUseCase
	logger  Logger
}

func NewHandler(useCase BookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/credits/{creditId}/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creditID, err := uuid.Parse(mux.Vars(r)["creditId"])
	if err != nil {
		h.logger.Warn("POST /credits/{id}/book - Invalid credit ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreditID)
		return
	}

	var req BookCreditRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /credits/{id}/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		h.logger.Warn("POST /credits/{id}/book - Invalid data: %v", fields)
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(creditID, actor, tenantID))
	if err != nil {
		switch {
		case errors.Is(err, bookCredit.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidData)
		case errors.Is(err, bookCredit.ErrCreditNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, bookCredit.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, bookCredit.ErrCreditNotAvailable):
			handlers.RespondUnprocessable(w, msgNotAvailable)
		case errors.Is(err, bookCredit.ErrLeadTimeViolation):
			handlers.RespondUnprocessable(w, msgLeadTime)
		case errors.Is(err, bookCredit.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, bookCredit.ErrCreditConsumed):
			handlers.RespondConflict(w, msgConsumed)
		case errors.Is(err, bookCredit.ErrAvailabilityTimeout):
			handlers.RespondServiceUnavailable(w, msgTimeout)
		default:
			h.logger.Error("POST /credits/{id}/book - Failed to book credit: credit_id=%s, error=%v", creditID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /credits/{id}/book - Credit booked: credit_id=%s, lesson_id=%s", creditID, resp.Lesson.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp, time.Now().UTC()))
}
