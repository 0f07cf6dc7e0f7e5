package handlers

import (
	"context"
	"net/http"
	"time"

	"peerprep/interview/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
	// events is nil when no redis is configured
	events Pinger
}

func NewHealthHandler(db, events Pinger) *HealthHandler {
	return &HealthHandler{db: db, events: events}
}

func (h *HealthHandler) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
	})
}

func (h *HealthHandler) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]ReadinessCheck{"database": check(ctx, h.db, "database not initialized")}
	if h.events != nil {
		checks["events"] = check(ctx, h.events, "")
	}

	resp := ReadinessResponse{Status: "ready", Service: "interview", Checks: checks}
	for _, c := range checks {
		if c.Status != "ok" {
			resp.Status = "not_ready"
			utils.JSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	utils.JSON(w, http.StatusOK, resp)
}

func check(ctx context.Context, p Pinger, missing string) ReadinessCheck {
	if p == nil {
		return ReadinessCheck{Status: "failed", Message: missing}
	}
	if err := p.PingContext(ctx); err != nil {
		return ReadinessCheck{Status: "failed", Message: err.Error()}
	}
	return ReadinessCheck{Status: "ok"}
}
