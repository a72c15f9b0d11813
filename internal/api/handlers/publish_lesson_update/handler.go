package publish_lesson_update

import (
	"net/http"
	"time"

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

// Handle POST /api/v1/events/lesson-updates
// Принимает события только от LessonService (роль system)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	if actor.Kind != domain.ActorSystem {
		h.logger.Warn("POST /events/lesson-updates - Access denied: user_id=%s, role=%s", actor.ID, actor.Kind)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req LessonUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events/lesson-updates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		h.logger.Warn("POST /events/lesson-updates - Invalid data: %v", fields)
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	if err := h.publisher.Publish(r.Context(), events.TopicLessonUpdates, req.ToDomain(time.Now().UTC())); err != nil {
		h.logger.Error("POST /events/lesson-updates - Failed to publish: lesson_id=%s, error=%v", req.LessonID, err)
		handlers.RespondServiceUnavailable(w, msgUnavailable)
		return
	}

	h.logger.Info("POST /events/lesson-updates - Accepted: type=%s, lesson_id=%s", req.Type, req.LessonID)
	w.WriteHeader(http.StatusAccepted)
}
