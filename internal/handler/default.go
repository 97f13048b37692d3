package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/oggyb/skebby-gateway/internal/db"
	"github.com/oggyb/skebby-gateway/internal/response"
)

// healthTimeout bounds each dependency check.
const healthTimeout = 2 * time.Second

// HomeHandler serves the root and health endpoints.
type HomeHandler struct {
	checks map[string]db.Pinger
}

// NewHomeHandler returns a new HomeHandler. Every entry of checks is pinged
// by the health endpoint.
func NewHomeHandler(checks map[string]db.Pinger) *HomeHandler {
	return &HomeHandler{checks: checks}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "Skebby SMS gateway",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports whether the API and its backing stores are reachable.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Failure     503 {object} response.HealthResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := response.HealthPayload{Status: "ok"}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if payload.Checks == nil {
			payload.Checks = make(map[string]string, len(names))
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := h.checks[name].Ping(ctx)
		cancel()

		if err != nil {
			payload.Status = "degraded"
			payload.Checks[name] = err.Error()
			continue
		}
		payload.Checks[name] = "ok"
	}

	status := http.StatusOK
	if payload.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.RespondJSON(w, status, payload)
}
