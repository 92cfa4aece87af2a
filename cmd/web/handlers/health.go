package handlers

import (
	"context"
	"net/http"

	"invoicer/internal/health"
)

type HealthServiceContract interface {
	Check(ctx context.Context) health.Result
}

type Health struct {
	svc HealthServiceContract
}

func NewHealth(svc HealthServiceContract) *Health { return &Health{svc: svc} }

func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Check(r.Context())
	status := http.StatusOK
	body := map[string]any{"status": "up", "checks": res.Checks}
	if !res.OK {
		status = http.StatusServiceUnavailable
		body["status"] = "down"
	}
	respond(w, status, body)
}
