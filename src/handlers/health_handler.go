package handlers

import (
	"net/http"
	"time"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/services"
	"github.com/username/dartviewer/backend/src/utils"
)

type HealthHandler struct {
	companyService services.CompanyService
	dartConfigured bool
	aiConfigured   bool
	startedAt      time.Time
}

func NewHealthHandler(companyService services.CompanyService, dartConfigured, aiConfigured bool) *HealthHandler {
	return &HealthHandler{
		companyService: companyService,
		dartConfigured: dartConfigured,
		aiConfigured:   aiConfigured,
		startedAt:      time.Now(),
	}
}

type healthResponse struct {
	Status         string                 `json:"status"`
	Uptime         string                 `json:"uptime"`
	DartConfigured bool                   `json:"dartConfigured"`
	AIConfigured   bool                   `json:"aiConfigured"`
	Lookup         *services.LookupStatus `json:"lookup"`
}

// HandleHealth reports "degraded" when the lookup table is empty, since
// company search cannot work until the corp codes are imported.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.companyService.Status(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Health check failed", "error", err)
		utils.SendJSONError(w, msgHealthCheckFailed, http.StatusServiceUnavailable)
		return
	}

	resp := healthResponse{
		Status:         "ok",
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
		DartConfigured: h.dartConfigured,
		AIConfigured:   h.aiConfigured,
		Lookup:         status,
	}
	if status.Companies == 0 || !h.dartConfigured {
		resp.Status = "degraded"
	}
	utils.WriteJSON(w, r, resp)
}
