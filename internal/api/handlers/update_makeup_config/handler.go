package update_makeup_config

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	configService "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные конфигурации"
	msgForbidden          = "изменять конфигурацию может только администратор"
	msgNotFound           = "конфигурация не найдена"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/makeup-config/{category}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	var req UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /makeup-config/{category} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fields := handlers.Validate(&req); fields != nil {
		handlers.RespondValidationError(w, msgInvalidData, fields)
		return
	}

	config, err := h.service.Upsert(r.Context(), req.ToServiceRequest(actor, tenantID, category))
	if err != nil {
		switch {
		case errors.Is(err, configService.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, configService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PUT /makeup-config/{category} - Failed to save config: tenant=%s, category=%s, error=%v", tenantID, category, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /makeup-config/{category} - Config saved: tenant=%s, category=%s", tenantID, config.Category)
	handlers.RespondJSON(w, http.StatusOK, config)
}

// HandleDelete DELETE /api/v1/makeup-config/{category}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	actor, _ := middleware.GetActor(r.Context())
	tenantID, _ := middleware.GetTenantID(r.Context())

	if err := h.service.Delete(r.Context(), actor, tenantID, category); err != nil {
		switch {
		case errors.Is(err, configService.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, configService.ErrConfigNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("DELETE /makeup-config/{category} - Failed to delete config: tenant=%s, category=%s, error=%v", tenantID, category, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /makeup-config/{category} - Config deleted: tenant=%s, category=%s", tenantID, category)
	w.WriteHeader(http.StatusNoContent)
}
