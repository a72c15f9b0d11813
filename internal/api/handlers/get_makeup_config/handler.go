package get_makeup_config

import (
	"net/http"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
)

const msgConfigFailed = "не удалось получить конфигурацию"

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

// Handle GET /api/v1/makeup-config
// С параметром category возвращает действующую конфигурацию категории,
// без него - все сохраненные конфигурации автошколы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantID(r.Context())

	if category := r.URL.Query().Get("category"); category != "" {
		config, err := h.service.Get(r.Context(), tenantID, category)
		if err != nil {
			h.logger.Error("GET /makeup-config - Failed to resolve config: tenant=%s, category=%s, error=%v", tenantID, category, err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Info("GET /makeup-config - Config resolved: tenant=%s, category=%s, source=%s", tenantID, category, config.Source)
		handlers.RespondJSON(w, http.StatusOK, config)
		return
	}

	configs, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /makeup-config - Failed to list configs: tenant=%s, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, configs)
}
