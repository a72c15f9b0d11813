package run_scheduler

import (
	"errors"
	"net/http"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/scheduler/expiry"
)

const (
	msgForbidden      = "запуск планировщика доступен только администраторам"
	msgTickInProgress = "проход планировщика уже выполняется"
)

type Handler struct {
	scheduler ExpiryScheduler
	logger    Logger
}

func NewHandler(scheduler ExpiryScheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// Handle POST /api/v1/admin/scheduler/run
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	if actor.Kind != domain.ActorAdmin && actor.Kind != domain.ActorSystem {
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	report, err := h.scheduler.Tick(r.Context())
	if err != nil {
		if errors.Is(err, expiry.ErrTickInProgress) {
			handlers.RespondConflict(w, msgTickInProgress)
			return
		}
		h.logger.Error("POST /admin/scheduler/run - Tick failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/scheduler/run - Tick completed by %s=%s: scanned=%d, reminders=%d, expired=%d",
		actor.Kind, actor.ID, report.Scanned, report.RemindersSent, report.Expired)
	handlers.RespondJSON(w, http.StatusOK, report)
}
