package handlers

import (
	"net/http"

	"invoicer/internal/metrics"
)

type Metrics struct {
	svc *metrics.Service
}

func NewMetrics(svc *metrics.Service) *Metrics {
	return &Metrics{svc: svc}
}

func (h *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.svc.Snapshot())
}
