package publish_cancellation

import (
	"net/http"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные события"
	msgForbidden          = "доступ запрещен"
	msgUnavailable        = "обработчик событий недоступен"
)

type Handler struct {
	publisher EventPublisher
	logger    Logger
}

func NewHandler(publisher EventPublisher, logger Logger) *Handler {
	return &Handler{
		publisher: publisher,
		logger:    logger,
	}
}

// Handle POST /api/v1/events/cancellations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	if actor.Kind == domain.ActorStudent {
		h.logger.Warn("POST /events/cancellations - Access denied: user_id=%s", actor.ID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req CancellationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events/cancellations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		h.logger.Warn("POST /events/cancellations - Invalid data: %v", fields)
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	if err := h.publisher.Publish(r.Context(), events.TopicCancellations, req.ToDomain(tenantID)); err != nil {
		h.logger.Error("POST /events/cancellations - Failed to publish: lesson_id=%s, error=%v", req.LessonID, err)
		handlers.RespondServiceUnavailable(w, msgUnavailable)
		return
	}

	h.logger.Info("POST /events/cancellations - Accepted: tenant=%s, lesson_id=%s", tenantID, req.LessonID)
	handlers.RespondJSON(w, http.StatusAccepted, AcceptedResponse{LessonID: req.LessonID, Status: "accepted"})
}
